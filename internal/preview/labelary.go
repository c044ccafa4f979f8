// Package preview renders a ZPL document to a PNG through the Labelary web
// service. Not every command is supported there; see http://labelary.com.
package preview

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "http://api.labelary.com"

const mmPerInch = 25.4

type Client struct {
	HTTP    *http.Client
	BaseURL string
}

func NewClient() *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		BaseURL: DefaultBaseURL,
	}
}

// Render posts the document and returns the PNG bytes for the label at the
// given index. Width and height are millimeters, dpmm the head resolution
// the document was built for.
func (c *Client) Render(document string, dpmm int, widthMM, heightMM float64, index int) ([]byte, error) {
	url := fmt.Sprintf("%s/v1/printers/%ddpmm/labels/%fx%f/%d/",
		c.BaseURL, dpmm, widthMM/mmPerInch, heightMM/mmPerInch, index)

	resp, err := c.HTTP.Post(url, "application/x-www-form-urlencoded", strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("couldn't reach labelary: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("couldn't read labelary response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("labelary rejected the document (%s): %s", resp.Status, body)
	}
	return body, nil
}
