package transform

import (
	"fmt"
	"strings"

	"github.com/spacesedan/reviewflow/internal/models"
)

var reviewSanitizer = strings.NewReplacer(
	"\n", " ",
	"\r", " ",
	"\t", " ",
	`"`, "'",
	"\\", "/",
)

// RenderPrompt builds the user message for one batch: one line per row with
// its item_id and review text. Review text is sanitized so no control
// sequence can break the outer JSON contract.
func RenderPrompt(batch []models.ReviewRow) string {
	var sb strings.Builder
	sb.WriteString("items :")
	for _, row := range batch {
		fmt.Fprintf(&sb, "\n id : %d , review : %s \n", row.ItemID, sanitizeReview(row.Review))
	}
	return sb.String()
}

func sanitizeReview(review string) string {
	return strings.TrimSpace(reviewSanitizer.Replace(review))
}
