package models

// ReviewRow is the unit of data flowing through the pipeline. Rows are
// decoded from raw-zone blobs; ItemID is assigned by the extractor and is
// dense within a single run.
type ReviewRow struct {
	ItemID int     `json:"item_id"`
	UserID string  `json:"id"`
	ShopID string  `json:"shop_id"`
	Price  float64 `json:"price"`
	Date   string  `json:"date"`
	Review string  `json:"review"`
}

// Verdict is the engine's per-row output. Sentiment is nil when the row's
// batch failed and recovery produced no usable result.
type Verdict struct {
	ItemID    int   `json:"item_id"`
	Sentiment *bool `json:"sentiment"`
}

// ItemSentiment mirrors one element of the model's response array.
type ItemSentiment struct {
	ItemID    int   `json:"item_id" jsonschema:"title=item_id,description=The identifier of the review as provided in the input."`
	Sentiment *bool `json:"sentiment" jsonschema:"title=sentiment,description=The user sentiment for the product based on the review. true: positive false: negative."`
}

// SentimentResponse is the envelope the model must return under the strict
// JSON-schema response format. The schema pins the array length to the batch
// length at request time.
type SentimentResponse struct {
	Sentiments []ItemSentiment `json:"sentiments" jsonschema:"title=sentiments,description=A list of sentiments for the given items."`
}

// EnrichedRow is a review row joined with its verdict; the gold zone holds a
// JSON array of these.
type EnrichedRow struct {
	ReviewRow
	Sentiment *bool `json:"sentiment"`
}
