package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tpg2004/nomora/internal/models"
	"github.com/Tpg2004/nomora/internal/output/producers"
)

// Destination receives finished reports. Implementations are not safe for
// concurrent use; the CLI writes reports sequentially.
type Destination interface {
	WriteReport(name string, resp models.Response) error
	Close() error
}

// ForConfig picks the destination named by output_format. The session id
// keys the folder (or topic batch) an export run writes into.
func ForConfig(cfg *models.Config, session string) (Destination, error) {
	switch cfg.OutputFormat {
	case "", "console":
		return &ConsoleOutput{}, nil
	case "json":
		return NewJSONOutput(cfg.OutputPath, session), nil
	case "csv":
		return NewCSVOutput(cfg.OutputPath, session), nil
	case "parquet":
		return NewParquetOutput(cfg, session)
	case "kafka":
		return NewKafkaOutput(&cfg.Kafka)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", cfg.OutputFormat)
	}
}

// ConsoleOutput renders reports for a terminal.
type ConsoleOutput struct{}

func (c *ConsoleOutput) WriteReport(name string, resp models.Response) error {
	var b strings.Builder
	if resp.Title != "" {
		b.WriteString(resp.Title + "\n")
		b.WriteString(strings.Repeat("=", len(resp.Title)) + "\n")
	}
	switch content := resp.Content.(type) {
	case *models.Table:
		writeTable(&b, content)
	case models.Text:
		b.WriteString(string(content) + "\n")
	}
	b.WriteString("\n")

	_, err := os.Stdout.WriteString(b.String())
	return err
}

func (c *ConsoleOutput) Close() error {
	return nil
}

func writeTable(b *strings.Builder, t *models.Table) {
	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = len(col)
	}
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for j := range t.Columns {
			if j < len(row) {
				cells[j] = fmt.Sprintf("%v", row[j])
			}
			if len(cells[j]) > widths[j] {
				widths[j] = len(cells[j])
			}
		}
		rows[i] = cells
	}

	writeRow := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(c + strings.Repeat(" ", widths[i]-len(c)))
		}
		b.WriteString("\n")
	}

	writeRow(t.Columns)
	for _, row := range rows {
		writeRow(row)
	}
	if len(rows) == 0 {
		b.WriteString("(no rows)\n")
	}
}

// JSONOutput writes one <session>/<name>.json file per report.
type JSONOutput struct {
	basePath string
	folder   string
	files    map[string]*os.File
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
	}
}

func (j *JSONOutput) WriteReport(name string, resp models.Response) error {
	fullPath := filepath.Join(j.basePath, j.folder)
	if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
		return err
	}

	file, ok := j.files[name]
	if !ok {
		var err error
		file, err = os.Create(filepath.Join(fullPath, name+".json"))
		if err != nil {
			return err
		}
		j.files[name] = file
	}

	jsonData, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	if _, err := file.Write(jsonData); err != nil {
		return err
	}
	_, err = file.WriteString("\n")
	return err
}

func (j *JSONOutput) Close() error {
	for _, file := range j.files {
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}

// CSVOutput writes tabular reports as <session>/<name>.csv. Text reports
// have no rows to write and are skipped.
type CSVOutput struct {
	basePath string
	folder   string
	files    map[string]*os.File
	writers  map[string]*csv.Writer
}

func NewCSVOutput(basePath, folder string) *CSVOutput {
	return &CSVOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
		writers:  make(map[string]*csv.Writer),
	}
}

func (c *CSVOutput) WriteReport(name string, resp models.Response) error {
	table, ok := resp.Content.(*models.Table)
	if !ok {
		log.Printf("skipping %s: CSV export only covers tabular reports", name)
		return nil
	}

	fullPath := filepath.Join(c.basePath, c.folder)
	if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
		return err
	}

	csvWriter, ok := c.writers[name]
	if !ok {
		file, err := os.Create(filepath.Join(fullPath, name+".csv"))
		if err != nil {
			return err
		}
		c.files[name] = file
		csvWriter = csv.NewWriter(file)
		c.writers[name] = csvWriter

		if err := csvWriter.Write(table.Columns); err != nil {
			return err
		}
	}

	for _, row := range table.Rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = fmt.Sprintf("%v", cell)
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func (c *CSVOutput) Close() error {
	for name, csvWriter := range c.writers {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			return err
		}
		if err := c.files[name].Close(); err != nil {
			return err
		}
	}
	return nil
}

// KafkaOutput publishes JSON-marshalled reports to <prefix><name> topics.
type KafkaOutput struct {
	producer    producers.Producer
	topicPrefix string
}

func NewKafkaOutput(cfg *models.KafkaConfig) (*KafkaOutput, error) {
	var (
		p   producers.Producer
		err error
	)
	if cfg.UseConfluent {
		p, err = producers.NewConfluentProducer(cfg)
	} else {
		p, err = producers.NewSaramaProducer(cfg)
	}
	if err != nil {
		return nil, err
	}
	return &KafkaOutput{producer: p, topicPrefix: cfg.TopicPrefix}, nil
}

func (k *KafkaOutput) WriteReport(name string, resp models.Response) error {
	msg, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return k.producer.WriteMessage(k.topicPrefix+name, msg)
}

func (k *KafkaOutput) Close() error {
	return k.producer.Close()
}
