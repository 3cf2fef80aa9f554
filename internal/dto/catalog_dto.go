package dto

import "ai-trendboard-be/pkg/table"

type UploadResponse struct {
	FileName string   `json:"file_name"`
	RowCount int      `json:"row_count"`
	Columns  []string `json:"columns"`
}

type GetCatalogResponse struct {
	Table    *table.Table `json:"table"`
	RowCount int          `json:"row_count"`
}
