package outbound

import (
	"context"

	"github.com/Cyr-Ch/filmmaker/domain"
)

type RenderLedgerPort interface {
	Save(ctx context.Context, record domain.RenderRecord) error
}
