package metro

import "context"

// Trains fetches the current collated status of every tracked train.
// opts may be nil for the full unfiltered response.
func (c *Client) Trains(ctx context.Context, opts *TrainsOptions) (*TrainsResponse, error) {
	if err := c.checkOptions(opts); err != nil {
		return nil, err
	}
	var out TrainsResponse
	if err := c.get(ctx, "/trains", opts.encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Train fetches the current status of a single train. An unknown TRN is
// reported by the proxy as a 404, surfaced here as an *APIError.
func (c *Client) Train(ctx context.Context, trn string, opts *TrainsOptions) (*TrainResponse, error) {
	if err := c.checkOptions(opts); err != nil {
		return nil, err
	}
	var out TrainResponse
	if err := c.get(ctx, "/trains/"+pathEscape(trn), opts.encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
