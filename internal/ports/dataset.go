package ports

import "github.com/go-gota/gota/dataframe"

// Source of the historical delivery dataset used for exploratory statistics.
type DatasetSource interface {
	Frame() dataframe.DataFrame
}
