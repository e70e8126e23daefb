package output

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Tpg2004/nomora/internal/cloudwriter"
	"github.com/Tpg2004/nomora/internal/models"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/schema"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// RemovalCandidateRow is the parquet projection of the removal report.
type RemovalCandidateRow struct {
	DishName               string  `parquet:"name=dishName,type=BYTE_ARRAY,convertedtype=UTF8"`
	WeeklyOrders           int64   `parquet:"name=weeklyOrders,type=INT64"`
	PrimaryWasteIngredient string  `parquet:"name=primaryWasteIngredient,type=BYTE_ARRAY,convertedtype=UTF8"`
	WastePct               float64 `parquet:"name=wastePct,type=DOUBLE"`
}

type TopWasteRow struct {
	Ingredient         string  `parquet:"name=ingredient,type=BYTE_ARRAY,convertedtype=UTF8"`
	AvgWastePct        float64 `parquet:"name=avgWastePct,type=DOUBLE"`
	FrequentlyWastedIn string  `parquet:"name=frequentlyWastedIn,type=BYTE_ARRAY,convertedtype=UTF8"`
}

type OverlapRankingRow struct {
	DishName     string `parquet:"name=dishName,type=BYTE_ARRAY,convertedtype=UTF8"`
	ProfitMargin int64  `parquet:"name=profitMargin,type=INT64"`
	Ingredients  string `parquet:"name=ingredients,type=BYTE_ARRAY,convertedtype=UTF8"`
}

type SummaryRow struct {
	Metric string `parquet:"name=metric,type=BYTE_ARRAY,convertedtype=UTF8"`
	Value  string `parquet:"name=value,type=BYTE_ARRAY,convertedtype=UTF8"`
}

// GetSchema returns the parquet schema for a report name.
func GetSchema(name string) (*schema.SchemaHandler, error) {
	switch name {
	case "removal_candidates":
		return schema.NewSchemaHandlerFromStruct(new(RemovalCandidateRow))
	case "top_waste":
		return schema.NewSchemaHandlerFromStruct(new(TopWasteRow))
	case "overlap_ranking":
		return schema.NewSchemaHandlerFromStruct(new(OverlapRankingRow))
	case "summary":
		return schema.NewSchemaHandlerFromStruct(new(SummaryRow))
	default:
		return nil, fmt.Errorf("unknown report: %s", name)
	}
}

// rowFor maps one content-table row onto the typed parquet row for a report.
// The cell layout is fixed by the assistant's projections.
func rowFor(name string, cells []any) (any, error) {
	switch name {
	case "removal_candidates":
		dish, ok1 := cells[0].(string)
		orders, ok2 := cells[1].(int)
		primary, ok3 := cells[2].(string)
		waste, ok4 := cells[3].(float64)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return nil, fmt.Errorf("unexpected cell types in %s row", name)
		}
		return RemovalCandidateRow{dish, int64(orders), primary, waste}, nil
	case "top_waste":
		ing, ok1 := cells[0].(string)
		waste, ok2 := cells[1].(float64)
		wastedIn, ok3 := cells[2].(string)
		if !ok1 || !ok2 || !ok3 {
			return nil, fmt.Errorf("unexpected cell types in %s row", name)
		}
		return TopWasteRow{ing, waste, wastedIn}, nil
	case "overlap_ranking":
		dish, ok1 := cells[0].(string)
		margin, ok2 := cells[1].(int)
		ingredients, ok3 := cells[2].(string)
		if !ok1 || !ok2 || !ok3 {
			return nil, fmt.Errorf("unexpected cell types in %s row", name)
		}
		return OverlapRankingRow{dish, int64(margin), ingredients}, nil
	case "summary":
		return SummaryRow{fmt.Sprintf("%v", cells[0]), fmt.Sprintf("%v", cells[1])}, nil
	default:
		return nil, fmt.Errorf("unknown report: %s", name)
	}
}

// ParquetOutput writes tabular reports as parquet files, locally or straight
// to cloud storage.
type ParquetOutput struct {
	basePath           string
	folder             string
	writers            map[string]*writer.ParquetWriter
	files              map[string]source.ParquetFile
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

func NewParquetOutput(cfg *models.Config, folder string) (*ParquetOutput, error) {
	p := &ParquetOutput{
		basePath: cfg.OutputPath,
		folder:   folder,
		writers:  make(map[string]*writer.ParquetWriter),
		files:    make(map[string]source.ParquetFile),
	}

	if cfg.OutputDestination != "local" {
		switch cfg.CloudStorage.Provider {
		case "s3":
			factory, err := cloudwriter.NewS3WriterFactory(cfg.CloudStorage.Region)
			if err != nil {
				return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
			}
			p.cloudWriterFactory = factory
			p.cloudBucketName = cfg.CloudStorage.BucketName
		default:
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
		}
	}

	return p, nil
}

func (p *ParquetOutput) WriteReport(name string, resp models.Response) error {
	table, ok := resp.Content.(*models.Table)
	if !ok {
		log.Printf("skipping %s: parquet export only covers tabular reports", name)
		return nil
	}

	pw, ok := p.writers[name]
	if !ok {
		var err error
		pw, err = p.createWriter(name)
		if err != nil {
			return fmt.Errorf("failed to create parquet writer: %w", err)
		}
		p.writers[name] = pw
	}

	for _, cells := range table.Rows {
		rec, err := rowFor(name, cells)
		if err != nil {
			return err
		}
		if err := pw.Write(rec); err != nil {
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}
	return nil
}

func (p *ParquetOutput) createWriter(name string) (*writer.ParquetWriter, error) {
	var fw source.ParquetFile
	objectPath := filepath.Join(p.folder, name+".parquet")

	if p.cloudWriterFactory != nil {
		cw, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = NewCloudParquetFile(cw)
	} else {
		fullPath := filepath.Join(p.basePath, p.folder)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return nil, err
		}
		var err error
		fw, err = local.NewLocalFileWriter(filepath.Join(fullPath, name+".parquet"))
		if err != nil {
			return nil, fmt.Errorf("failed to create local file writer: %w", err)
		}
	}

	sc, err := GetSchema(name)
	if err != nil {
		return nil, err
	}

	pw, err := writer.NewParquetWriter(fw, nil, 4)
	if err != nil {
		return nil, err
	}
	pw.SchemaHandler = sc
	p.files[name] = fw

	return pw, nil
}

func (p *ParquetOutput) Close() error {
	var lastErr error
	for name, pw := range p.writers {
		if err := pw.WriteStop(); err != nil {
			lastErr = err
			log.Printf("Error closing writer for report %s: %v", name, err)
		}
		if f, ok := p.files[name]; ok {
			if err := f.Close(); err != nil {
				lastErr = err
				log.Printf("Error closing file for report %s: %v", name, err)
			}
		}
	}
	return lastErr
}
