// package formatter exports album manifests to various formats (JSON, CSV, Markdown, plain text, YAML)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
	"gopkg.in/yaml.v3"
)

// Format is an export format name.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatYAML     Format = "yaml"
)

// ParseFormat accepts a format name or one of its common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (json, csv, md, txt, yaml)", shared.ErrInvalidArgument, s)
	}
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// ManifestItem is one album member in export order.
type ManifestItem struct {
	Position int    `json:"position" yaml:"position"`
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Cover    bool   `json:"cover,omitempty" yaml:"cover,omitempty"`
}

// Manifest is the exported view of an album.
type Manifest struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	FolderID  string         `json:"folder_id,omitempty" yaml:"folder_id,omitempty"`
	Cover     string         `json:"cover,omitempty" yaml:"cover,omitempty"`
	ItemCount int            `json:"item_count" yaml:"item_count"`
	Items     []ManifestItem `json:"items,omitempty" yaml:"items,omitempty"`
}

// NewManifest builds the manifest for album. Positions start at 1 and the effective cover is marked.
func NewManifest(album *models.Album) Manifest {
	cover := album.EffectiveCover()
	m := Manifest{
		ID:        album.ID,
		Name:      album.Name,
		FolderID:  album.FolderID,
		Cover:     cover,
		ItemCount: len(album.Items),
		Items:     make([]ManifestItem, 0, len(album.Items)),
	}
	for i, item := range album.Items {
		m.Items = append(m.Items, ManifestItem{
			Position: i + 1,
			ID:       item.ID,
			Name:     item.DisplayName,
			Cover:    item.ID == cover,
		})
	}
	return m
}

// Export renders album in format.
func Export(album *models.Album, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(album)
	case FormatMarkdown:
		return ExportToMarkdown(album)
	case FormatText:
		return ExportToText(album)
	case FormatYAML:
		return ExportToYAML(album)
	case FormatJSON:
		return shared.MarshalJSON(NewManifest(album), true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToCSV converts an album to CSV format with columns: Position, ID, Name, Cover
func ExportToCSV(album *models.Album) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Name", "Cover"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range NewManifest(album).Items {
		record := []string{
			strconv.Itoa(item.Position),
			item.ID,
			item.Name,
			strconv.FormatBool(item.Cover),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an album to Markdown format
func ExportToMarkdown(album *models.Album) ([]byte, error) {
	var buf bytes.Buffer
	m := NewManifest(album)

	buf.WriteString(fmt.Sprintf("# %s\n\n", m.Name))
	if m.FolderID != "" {
		buf.WriteString(fmt.Sprintf("**Folder**: %s\n", m.FolderID))
	}
	buf.WriteString(fmt.Sprintf("**Items**: %d\n", m.ItemCount))
	if m.Cover != "" {
		buf.WriteString(fmt.Sprintf("**Cover**: %s\n", m.Cover))
	}
	buf.WriteString("\n## Items\n\n")

	for _, item := range m.Items {
		label := item.ID
		if item.Name != "" {
			label = fmt.Sprintf("%s (`%s`)", item.Name, item.ID)
		}
		marker := ""
		if item.Cover {
			marker = " *cover*"
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s\n", item.Position, label, marker))
	}

	return buf.Bytes(), nil
}

// ExportToText converts an album to plain text format
func ExportToText(album *models.Album) ([]byte, error) {
	var buf bytes.Buffer
	m := NewManifest(album)

	buf.WriteString(fmt.Sprintf("Album: %s\n", m.Name))
	if m.Cover != "" {
		buf.WriteString(fmt.Sprintf("Cover: %s\n", m.Cover))
	}
	buf.WriteString(fmt.Sprintf("Items: %d\n\n", m.ItemCount))

	for _, item := range m.Items {
		buf.WriteString(fmt.Sprintf("%d. %s\n", item.Position, album.Items[item.Position-1].Label()))
	}

	return buf.Bytes(), nil
}

// ExportToYAML converts an album to a YAML manifest
func ExportToYAML(album *models.Album) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(NewManifest(album)); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of album metadata (without items)
func ToMetadataJSON(album *models.Album) ([]byte, error) {
	m := NewManifest(album)
	m.Items = nil
	return shared.MarshalJSON(m, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	ItemsFile    string
	MetadataFile string
}

// WriteCSVExport exports an album to CSV format with accompanying metadata JSON file.
//
// Defaults to album ID as the base filename & creates {base}_items.csv and {base}_metadata.json
func WriteCSVExport(album *models.Album, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = album.ID
	}

	csvData, err := ExportToCSV(album)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	itemsFile := baseFilepath + "_items.csv"
	if err := os.WriteFile(itemsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(album)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		ItemsFile:    itemsFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport exports an album to {dir}/README.md. Directory name defaults to the album ID.
func WriteMarkdownExport(album *models.Album, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = album.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(album)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}
	return mdFile, nil
}

// WriteTextExport exports an album to plain text format.
//
// Defaults to {album.ID}_items.txt as the filename.
func WriteTextExport(album *models.Album, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_items.txt", album.ID)
	}

	textData, err := ExportToText(album)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// WriteYAMLExport exports an album manifest to YAML. Defaults to {album.ID}.yaml as the filename.
func WriteYAMLExport(album *models.Album, path string) (string, error) {
	if path == "" {
		path = album.ID + ".yaml"
	}

	data, err := ExportToYAML(album)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}
	return path, nil
}

// WriteExport writes album into dir in format and returns the files created.
func WriteExport(album *models.Album, format Format, dir string) ([]string, error) {
	base := filepath.Join(dir, album.ID)
	switch format {
	case FormatCSV:
		res, err := WriteCSVExport(album, base)
		if err != nil {
			return nil, err
		}
		return []string{res.ItemsFile, res.MetadataFile}, nil
	case FormatMarkdown:
		path, err := WriteMarkdownExport(album, base)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	case FormatText:
		path, err := WriteTextExport(album, base+"_items.txt")
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	case FormatYAML:
		path, err := WriteYAMLExport(album, base+".yaml")
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	default:
		data, err := shared.MarshalJSON(NewManifest(album), true)
		if err != nil {
			return nil, fmt.Errorf("JSON marshal failed: %w", err)
		}
		path := base + ".json"
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("JSON write failed: %w", err)
		}
		return []string{path}, nil
	}
}
