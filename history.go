package metro

import "context"

// HistorySummary fetches per-TRN summaries of the stored history: first and
// last entry instants and the entry count, filtered by opts.
func (c *Client) HistorySummary(ctx context.Context, opts *HistoryOptions) (*HistorySummaryResponse, error) {
	if err := c.checkOptions(opts); err != nil {
		return nil, err
	}
	var out HistorySummaryResponse
	if err := c.get(ctx, "/history", opts.encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrainHistory fetches recorded state changes for one train, newest first.
func (c *Client) TrainHistory(ctx context.Context, trn string, opts *HistoryOptions) (*TrainHistoryResponse, error) {
	if err := c.checkOptions(opts); err != nil {
		return nil, err
	}
	var out TrainHistoryResponse
	if err := c.get(ctx, "/trains/"+pathEscape(trn)+"/history", opts.encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
