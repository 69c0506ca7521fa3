package orders

import (
	"encoding/base64"
	"encoding/json"
)

// EncodeReviewToken serializes the record into the opaque token carried by
// the review link.
func EncodeReviewToken(r OrderRecord) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func ReviewLink(host, token string) string {
	return "https://" + host + "/order-review?data=" + token
}
