package finder

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/anatolykoptev/go_channels/internal/table"
)

// ChannelLookup is the per-identity resolution boundary BatchProcessor
// depends on.
type ChannelLookup interface {
	FindChannels(ctx context.Context, id Identity) ChannelMatches
}

// BatchProcessor walks an identity table in order, resolving each row
// and assembling the output table. One row's failure never aborts the
// batch: the row gets an empty, zero-score result instead.
type BatchProcessor struct {
	lookup ChannelLookup
	sleep  func(ctx context.Context, min, max time.Duration)
}

func NewBatchProcessor(lookup ChannelLookup) *BatchProcessor {
	return &BatchProcessor{lookup: lookup, sleep: sleepJitter}
}

// Process resolves every row of in. The output preserves input row
// order and all original columns, adding the four match columns.
// Output row count always equals input row count.
func (b *BatchProcessor) Process(ctx context.Context, in *table.Table, rep Reporter) *table.Table {
	out := in.WithResultColumns()
	total := in.Len()

	for i := 0; i < total; i++ {
		id := Identity{
			Username:    in.Field(i, table.ColUsername),
			DisplayName: in.Field(i, table.ColProfileName),
			SourceURL:   in.Field(i, table.ColURL),
		}

		rep.Progress(float64(i+1) / float64(total))
		rep.Status(fmt.Sprintf("Processing %s (%d/%d)", id.Username, i+1, total))

		m := b.resolve(ctx, id)
		row := append([]string{}, in.Row(i)...)
		row = append(row,
			m.YouTubeURL, strconv.Itoa(m.YouTubeScore),
			m.TwitchURL, strconv.Itoa(m.TwitchScore))
		out.AppendRow(row)

		metrics.IdentitiesDone.Add(1)
		if i < total-1 {
			b.sleep(ctx, 3*time.Second, 6*time.Second)
		}
	}
	return out
}

// resolve isolates one identity's resolution: a panic inside the
// pipeline is confined to this row.
func (b *BatchProcessor) resolve(ctx context.Context, id Identity) (m ChannelMatches) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("identity resolution failed",
				slog.String("username", id.Username), slog.Any("panic", r))
			m = ChannelMatches{}
		}
	}()
	return b.lookup.FindChannels(ctx, id)
}
