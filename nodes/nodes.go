package nodes

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/BaSui01/nodeflow/client"
)

// base carries what every node adapter needs: the API client for the
// profile the node is bound to, and a logger.
type base struct {
	client *client.Client
	logger *zap.Logger
}

func newBase(c *client.Client, logger *zap.Logger, node string) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{
		client: c,
		logger: logger.With(zap.String("node", node)),
	}
}

// parseOverrides decodes the advanced-parameters JSON string a node field
// carries. An empty string means no overrides; anything that is not a JSON
// object is an error the node reports fail-soft.
func parseOverrides(s string) (client.Options, error) {
	if s == "" {
		return nil, nil
	}
	var opts client.Options
	if err := json.Unmarshal([]byte(s), &opts); err != nil {
		return nil, fmt.Errorf("advanced params is not a JSON object: %w", err)
	}
	return opts, nil
}

// marshalResponse renders a raw API response for the node's full_response
// output. Marshal failure degrades to "{}" rather than failing the node.
func marshalResponse(resp map[string]any) string {
	if resp == nil {
		return "{}"
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// softError logs a node failure and returns the message that goes into the
// node's error output. Nodes never return Go errors to the graph: the
// graph keeps executing and the error surfaces as a string the user can
// read on the node.
func (b *base) softError(op string, err error) string {
	b.logger.Warn("node operation failed", zap.String("op", op), zap.Error(err))
	return fmt.Sprintf("%s failed: %v", op, err)
}
