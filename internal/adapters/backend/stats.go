package backend

import (
	"context"
	"encoding/json"
)

// Count fetches one of the counting endpoints (/forms, /messages, /users,
// /emails, /entities) and returns the length of the array it serves.
func (c *Client) Count(ctx context.Context, token, path string) (int, error) {
	var out []json.RawMessage
	if err := c.get(ctx, path, path, token, &out); err != nil {
		return 0, err
	}
	return len(out), nil
}
