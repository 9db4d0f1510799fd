package arrowscan

import (
	"context"
	"fmt"

	"github.com/starql/starql"
	"github.com/starql/starql/execution"
)

// Scan fills out with at most execution.VectorSize rows. A zero-row result
// means the stream is exhausted; scans after that stay at zero rows. Rows
// dropped by pushed-down filters never surface as empty batches: the scan
// keeps pulling until it has output rows or runs out of input.
func Scan(ctx context.Context, bind *BindData, global *GlobalState, local *LocalState, out *execution.Chunk) error {
	scratch := make([]starql.Value, len(global.ColumnIDs))

	outRow := 0
	for outRow == 0 {
		if local.record == nil || local.offset >= local.record.NumRows() {
			if local.record != nil {
				local.record.Release()
				local.record = nil
				local.offset = 0
			}
			record, err := global.next(ctx)
			if err != nil {
				return fmt.Errorf("couldn't produce next record: %w", err)
			}
			if record == nil {
				out.SetCardinality(0)
				return nil
			}
			local.record = record
			local.offset = 0
		}

		rows := local.record.NumRows() - local.offset
		if rows > int64(execution.VectorSize) {
			rows = int64(execution.VectorSize)
		}

	rowLoop:
		for i := int64(0); i < rows; i++ {
			row := local.offset + i
			for j, columnID := range global.ColumnIDs {
				value, err := valueFromArrow(local.record.Column(columnID), int(row))
				if err != nil {
					return fmt.Errorf("couldn't read column %s row %d: %w", bind.Fields[columnID].Name, row, err)
				}
				scratch[j] = value
			}
			for _, filter := range global.Filters {
				if !filter.Matches(scratch[filter.ColumnIndex]) {
					continue rowLoop
				}
			}
			for j := range scratch {
				out.SetValue(j, outRow, scratch[j])
			}
			outRow++
		}
		local.offset += rows
	}

	out.SetCardinality(outRow)
	return nil
}
