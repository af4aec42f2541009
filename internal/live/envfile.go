package live

import (
	"bytes"
	"fmt"
	"sort"
)

// renderEnvFile renders a dotenv artifact with sorted keys so repeated
// projection is byte-stable.
func renderEnvFile(env map[string]any) []byte {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&buf, "%s=%s\n", k, envValue(env[k]))
	}
	return buf.Bytes()
}

func envValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		// JSON numbers decode as float64; print integers without a point.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
