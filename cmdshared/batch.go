package cmdshared

import (
	"fmt"

	"github.com/packit/packit/core"
	"github.com/rs/zerolog/log"
)

// BatchResult lists which items of a batch were processed and which were skipped
type BatchResult struct {
	Completed []string
	Skipped   []string
}

// RunBatch runs fn for each item in turn, never in parallel.
// A soft failure (see core.IsSoft) is logged and the item skipped; any other error stops the batch.
func RunBatch(items []string, fn func(item string) error) (BatchResult, error) {
	var res BatchResult
	for _, item := range items {
		err := fn(item)
		if err == nil {
			res.Completed = append(res.Completed, item)
			continue
		}
		if core.IsSoft(err) {
			log.Warn().Str("item", item).Msg(err.Error())
			res.Skipped = append(res.Skipped, item)
			continue
		}
		return res, fmt.Errorf("%s: %w", item, err)
	}
	return res, nil
}
