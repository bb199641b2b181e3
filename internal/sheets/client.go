package sheets

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// InputOption controls how written values are interpreted.
type InputOption string

const (
	// Raw stores values verbatim. Used for single attachment links.
	Raw InputOption = "RAW"
	// UserEntered parses values as if typed into the UI, so formulas and dates are evaluated.
	UserEntered InputOption = "USER_ENTERED"
)

// RenderOption controls how read values are returned.
type RenderOption string

const (
	Formatted RenderOption = "FORMATTED_VALUE"
	// Unformatted returns raw numbers, so dates come back as serial numbers.
	Unformatted RenderOption = "UNFORMATTED_VALUE"
)

type Client struct {
	service *sheets.Service
}

// NewClient builds a values client. Callers pass the authentication option: a token source for a
// signed-in user or a credentials file for a service account.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service: service,
	}, nil
}

func (c *Client) ReadRange(ctx context.Context, spreadsheetID, range_ string, render RenderOption) ([][]interface{}, error) {
	log.Debug().
		Str("range", range_).
		Str("render", string(render)).
		Msg("Reading sheet range")

	call := c.service.Spreadsheets.Values.Get(spreadsheetID, range_).Context(ctx)
	if render != "" {
		call = call.ValueRenderOption(string(render))
	}
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	log.Debug().Str("range", range_).Int("rows", len(resp.Values)).Msg("Read sheet range")
	return resp.Values, nil
}

func (c *Client) UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}, input InputOption) error {
	log.Debug().
		Str("range", range_).
		Str("input", string(input)).
		Int("rows", len(values)).
		Msg("Updating sheet range")

	valueRange := &sheets.ValueRange{
		Range:  range_,
		Values: values,
	}

	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, range_, valueRange).
		ValueInputOption(string(input)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update range: %w", err)
	}

	return nil
}
