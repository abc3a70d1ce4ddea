package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/expensio/expensio/internal/models"
)

// Indexer mirrors expenses into the search index. A nil *Indexer is valid
// and does nothing, so search stays optional at bootstrap.
type Indexer struct {
	ES    *elasticsearch.Client
	Index string
}

func (ix *Indexer) IndexExpense(ctx context.Context, e *models.Expense) error {
	if ix == nil {
		return nil
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(e); err != nil {
		return fmt.Errorf("index expense: %w", err)
	}

	res, err := ix.ES.Index(
		ix.Index,
		&buf,
		ix.ES.Index.WithDocumentID(e.ID.String()),
		ix.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index expense: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index expense: %s", res.Status())
	}
	return nil
}

func (ix *Indexer) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	if ix == nil {
		return nil
	}

	res, err := ix.ES.Delete(
		ix.Index,
		id.String(),
		ix.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete expense from index: %w", err)
	}
	defer res.Body.Close()
	// 404 is fine: the document was never indexed or already removed.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete expense from index: %s", res.Status())
	}
	return nil
}
