package metro

import "context"

// Heartbeats fetches the error history of the proxy's upstream API checks.
// Warning-level heartbeats are excluded unless opts.Warnings is set.
func (c *Client) Heartbeats(ctx context.Context, opts *HeartbeatsOptions) (*HeartbeatsResponse, error) {
	if err := c.checkOptions(opts); err != nil {
		return nil, err
	}
	var out HeartbeatsResponse
	if err := c.get(ctx, "/heartbeats", opts.encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
