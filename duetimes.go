package metro

import "context"

// DueTimes fetches the current due-time board for a station. Callers tailing
// a due-times stream can poll this to detect gaps after a reconnect, since
// streams never replay missed events.
func (c *Client) DueTimes(ctx context.Context, station string, opts *DueTimesOptions) (*DueTimesResponse, error) {
	if err := c.checkOptions(opts); err != nil {
		return nil, err
	}
	var out DueTimesResponse
	if err := c.get(ctx, "/due-times/"+pathEscape(station), opts.encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
