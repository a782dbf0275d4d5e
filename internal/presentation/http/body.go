package http

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
)

const maxRequestBodyBytes = 1 << 20

var (
	errMalformedBody = eris.New("malformed JSON body")
	errBodyTooLarge  = eris.New("request body too large")
)

// createInput reads the raw JSON body itself so an empty body reaches the handler.
type createInput struct {
	raw     []byte
	readErr error
}

func (in *createInput) Resolve(ctx huma.Context) []error {
	in.raw, in.readErr = readRequestBody(ctx)
	return nil
}

func (in *createInput) decode(dst any) error {
	return decodeBody(in.raw, in.readErr, dst)
}

type updateInput struct {
	Slug    string `path:"slug"`
	raw     []byte
	readErr error
}

func (in *updateInput) Resolve(ctx huma.Context) []error {
	in.raw, in.readErr = readRequestBody(ctx)
	return nil
}

func (in *updateInput) decode(dst any) error {
	return decodeBody(in.raw, in.readErr, dst)
}

var (
	_ huma.Resolver = (*createInput)(nil)
	_ huma.Resolver = (*updateInput)(nil)
)

func readRequestBody(ctx huma.Context) ([]byte, error) {
	reader := ctx.BodyReader()
	if reader == nil {
		return nil, nil
	}

	raw, err := io.ReadAll(io.LimitReader(reader, maxRequestBodyBytes+1))
	if err != nil {
		return nil, eris.Wrap(err, "reading request body")
	}
	if len(raw) > maxRequestBodyBytes {
		return nil, eris.Wrapf(errBodyTooLarge, "limit %d bytes", maxRequestBodyBytes)
	}

	return raw, nil
}

// decodeBody unmarshals a JSON request body into dst. A blank body leaves dst untouched.
func decodeBody(raw []byte, readErr error, dst any) error {
	if readErr != nil {
		return readErr
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return eris.Wrap(errMalformedBody, err.Error())
	}
	return nil
}
