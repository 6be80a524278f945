package models

// SourceRecord is one product record as served by the remote data source.
type SourceRecord struct {
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Date        string  `json:"date"`
	Review      string  `json:"review"`
}

// RawReview is a source record augmented with synthetic user and shop
// identifiers; raw-zone blobs hold JSON arrays of these. item_id is assigned
// later by the extractor.
type RawReview struct {
	UserID      string  `json:"id"`
	ShopID      string  `json:"shop_id"`
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Date        string  `json:"date"`
	Review      string  `json:"review"`
}
