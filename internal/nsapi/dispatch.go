package nsapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vk/nne/internal/apperr"
	"github.com/vk/nne/internal/ctxlog"
)

// Dispatch classification used for NNE notices: Meta / Reference.
const (
	CategoryMeta         = 8
	SubcategoryReference = 845
)

const (
	pinHeader      = "X-Pin"
	passwordHeader = "X-Password"
	tokenField     = "SUCCESS"
)

// Credentials authenticate private commands for a nation.
type Credentials struct {
	Nation   string
	Password string
}

// LogValue keeps the password out of logs.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(slog.String("nation", c.Nation), slog.String("password", "REDACTED"))
}

// DispatchForm is the content of a dispatch to add.
type DispatchForm struct {
	Title       string
	Text        string
	Category    int
	Subcategory int
}

// Confirmation is what the prepare phase hands to the execute phase. It is
// only valid for a single execute call.
type Confirmation struct {
	Pin   string
	Token string
}

// LogValue keeps the pin and token out of logs.
func (c Confirmation) LogValue() slog.Value {
	return slog.StringValue("REDACTED")
}

func (f DispatchForm) values(nation, mode string) url.Values {
	return url.Values{
		"nation":      {nation},
		"c":           {"dispatch"},
		"dispatch":    {"add"},
		"title":       {f.Title},
		"text":        {f.Text},
		"category":    {strconv.Itoa(f.Category)},
		"subcategory": {strconv.Itoa(f.Subcategory)},
		"mode":        {mode},
	}
}

// PrepareDispatch runs the prepare phase of the add-dispatch command and
// returns the session pin and confirmation token the execute phase needs.
func (c *Client) PrepareDispatch(ctx context.Context, creds Credentials, form DispatchForm) (Confirmation, error) {
	ctxlog.FromContext(ctx).Debug("Preparing dispatch.", "credentials", creds)

	header := http.Header{}
	header.Set(passwordHeader, creds.Password)
	resp, err := c.post(ctx, form.values(creds.Nation, "prepare"), header)
	if err != nil {
		return Confirmation{}, err
	}

	pin := resp.header.Get(pinHeader)
	if pin == "" {
		return Confirmation{}, &apperr.ProtocolError{Missing: pinHeader + " header", Detail: apiError(resp.body)}
	}
	token, ok, err := findElement(resp.body, tokenField)
	if err != nil || !ok || token == "" {
		return Confirmation{}, &apperr.ProtocolError{Missing: tokenField + " token", Detail: apiError(resp.body)}
	}
	return Confirmation{Pin: pin, Token: token}, nil
}

// ExecuteDispatch replays the prepared command with its confirmation. The
// response body is not inspected.
func (c *Client) ExecuteDispatch(ctx context.Context, creds Credentials, form DispatchForm, conf Confirmation) error {
	ctxlog.FromContext(ctx).Debug("Executing dispatch.", "credentials", creds, "confirmation", conf)

	header := http.Header{}
	header.Set(passwordHeader, creds.Password)
	header.Set(pinHeader, conf.Pin)
	values := form.values(creds.Nation, "execute")
	values.Set("token", conf.Token)

	_, err := c.post(ctx, values, header)
	return err
}

func apiError(body []byte) string {
	msg, _, _ := findElement(body, "ERROR")
	return msg
}
