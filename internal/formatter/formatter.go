// package formatter provides functions to export generated track data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"tracksmartin/internal/models"
	"tracksmartin/internal/shared"
)

// ExportToCSV converts a Task's clips to CSV format with columns: Clip ID, Title, Tags, Duration, Model, State, Audio URL
func ExportToCSV(task *models.Task) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Clip ID", "Title", "Tags", "Duration", "Model", "State", "Audio URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, clip := range task.Clips {
		record := []string{
			clip.ID,
			clip.Title,
			clip.Tags,
			shared.FormatDuration(clip.Duration),
			clip.ModelVersion,
			clip.State,
			clip.AudioURL,
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

// ExportToMarkdown converts a Task to Markdown format with optional cover image
func ExportToMarkdown(task *models.Task, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	title := taskTitle(task)
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	buf.WriteString(fmt.Sprintf("**Task**: %s\n", task.ID))
	buf.WriteString(fmt.Sprintf("**Kind**: %s\n", task.Kind))
	buf.WriteString(fmt.Sprintf("**Status**: %s\n", task.Status))
	buf.WriteString(fmt.Sprintf("**Clips**: %d\n\n", len(task.Clips)))

	buf.WriteString("## Clips\n\n")
	for i, clip := range task.Clips {
		duration := shared.FormatDuration(clip.Duration)
		tagsPart := ""
		if clip.Tags != "" {
			tagsPart = fmt.Sprintf(" (%s)", clip.Tags)
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s [%s]\n", i+1, clipTitle(clip), tagsPart, duration))
		if clip.AudioURL != "" {
			buf.WriteString(fmt.Sprintf("   - [Audio](%s)\n", clip.AudioURL))
		}
		if clip.VideoURL != "" {
			buf.WriteString(fmt.Sprintf("   - [Video](%s)\n", clip.VideoURL))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Task to plain text format
func ExportToText(task *models.Task) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Task: %s\n", task.ID))
	buf.WriteString(fmt.Sprintf("Kind: %s\n", task.Kind))
	buf.WriteString(fmt.Sprintf("Status: %s\n", task.Status))
	buf.WriteString(fmt.Sprintf("Clips: %d\n\n", len(task.Clips)))

	for i, clip := range task.Clips {
		buf.WriteString(fmt.Sprintf("%d. %s [%s]\n", i+1, clipTitle(clip), shared.FormatDuration(clip.Duration)))
		if clip.AudioURL != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", clip.AudioURL))
		}
	}

	return buf.Bytes(), nil
}

func taskTitle(task *models.Task) string {
	for _, clip := range task.Clips {
		if clip.Title != "" {
			return clip.Title
		}
	}
	return fmt.Sprintf("Task %s", task.ID)
}

func clipTitle(clip models.Clip) string {
	if clip.Title != "" {
		return clip.Title
	}
	return clip.ID
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// ToMetadataJSON generates a JSON representation of a task's metadata
func ToMetadataJSON(task *models.Task) ([]byte, error) {
	return shared.MarshalJSON(task, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	ClipsFile    string
	MetadataFile string
}

// WriteCSVExport exports a task to CSV format with accompanying metadata JSON file.
//
// Defaults to task ID as the base filename & creates {base}_clips.csv and {base}_metadata.json
func WriteCSVExport(task *models.Task, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = task.ID
	}

	csvData, err := ExportToCSV(task)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	clipsFile := baseFilepath + "_clips.csv"
	if err := os.WriteFile(clipsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(task)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		ClipsFile:    clipsFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports a task to Markdown format in a dedicated directory.
//
// Directory name defaults to the task ID.
// The imageURL parameter is optional - if provided, attempts to download the cover image.
// Creates a directory structure: {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(task *models.Task, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = task.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := fmt.Sprintf("%s/%s", outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(task, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a task to plain text format.
//
// Defaults to {task.ID}_clips.txt as the filename.
func WriteTextExport(task *models.Task, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_clips.txt", task.ID)
	}

	textData, err := ExportToText(task)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteDownloadManifest writes a download summary as indented JSON.
func WriteDownloadManifest(manifest any, path string) error {
	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// WriteLyricsFile writes lyrics with a title header to a text file.
func WriteLyricsFile(title, lyrics, path string) error {
	var buf bytes.Buffer
	if title != "" {
		buf.WriteString(title)
		buf.WriteString("\n")
		for range title {
			buf.WriteString("=")
		}
		buf.WriteString("\n\n")
	}
	buf.WriteString(lyrics)
	buf.WriteString("\n")

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write lyrics file: %w", err)
	}
	return nil
}
