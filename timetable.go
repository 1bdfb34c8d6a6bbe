package metro

import "context"

// Timetable fetches scheduled timetable entries. All option fields are
// optional filters; with none set the proxy returns today's full table.
func (c *Client) Timetable(ctx context.Context, opts *TimetableOptions) (*TimetableResponse, error) {
	if err := c.checkOptions(opts); err != nil {
		return nil, err
	}
	var out TimetableResponse
	if err := c.get(ctx, "/timetable", opts.encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
