package dialect

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrResponseShape means a successful backend body did not hold the reply
// where the dialect expects it.
var ErrResponseShape = errors.New("unexpected response shape")

// Extract reads the reply text from a successful backend body.
func Extract(d Dialect, body []byte) (string, error) {
	path := d.replyPath()
	res := gjson.GetBytes(body, path)
	if !res.Exists() {
		return "", fmt.Errorf("%w: %s missing", ErrResponseShape, path)
	}
	if res.Type != gjson.String {
		return "", fmt.Errorf("%w: %s is %s, not a string", ErrResponseShape, path, res.Type)
	}
	return res.Str, nil
}
