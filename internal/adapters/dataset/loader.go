package dataset

import (
	"delivery-time-service/internal/domain"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Columns every dataset must provide and the type each is read as.
var columnTypes = map[string]series.Type{
	domain.ColDeliveryTimeMin:      series.Float,
	domain.ColDistanceKm:           series.Float,
	domain.ColPreparationTimeMin:   series.Float,
	domain.ColCourierExperienceYrs: series.Float,
	domain.ColWeather:              series.String,
	domain.ColTrafficLevel:         series.String,
	domain.ColTimeOfDay:            series.String,
}

// LoadCSV reads the delivery dataset at path.
func LoadCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.New(), fmt.Errorf("load dataset: open %q: %w", path, err)
	}
	defer f.Close()

	df, err := ReadCSV(f)
	if err != nil {
		return dataframe.New(), fmt.Errorf("load dataset %q: %w", path, err)
	}
	return df, nil
}

// ReadCSV parses a dataset and checks the required columns are present.
func ReadCSV(r io.Reader) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r, dataframe.WithTypes(columnTypes))
	if df.Err != nil {
		return dataframe.New(), fmt.Errorf("read csv: %w", df.Err)
	}

	names := df.Names()
	for col := range columnTypes {
		if !slices.Contains(names, col) {
			return dataframe.New(), fmt.Errorf("read csv: missing column %q", col)
		}
	}
	if df.Nrow() == 0 {
		return dataframe.New(), fmt.Errorf("read csv: no rows")
	}

	return df, nil
}
