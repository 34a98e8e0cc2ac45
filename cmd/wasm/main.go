//go:build js && wasm
// +build js,wasm

package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/MeKo-Tech/noiselut/assets"
	"github.com/MeKo-Tech/noiselut/internal/gradient"
	"github.com/MeKo-Tech/noiselut/internal/lut"
	"github.com/MeKo-Tech/noiselut/internal/tables"
)

// BakeRequest is a bake request from JS.
type BakeRequest struct {
	Gradient gradient.Config `json:"gradient"`
	Width    int             `json:"width"`
	Sampling string          `json:"sampling"`
}

// BakeResponse carries the float texels and an 8-bit PNG strip.
type BakeResponse struct {
	Buffer *lut.EncodedBuffer `json:"buffer"`
	PNG    string             `json:"png"`
}

func errorValue(err error) any {
	return map[string]any{"error": err.Error()}
}

// jsonValue round-trips v through JSON so JS receives plain objects.
func jsonValue(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return errorValue(err)
	}
	return js.Global().Get("JSON").Call("parse", string(data))
}

func encode(buf *lut.EncodedBuffer) any {
	data, err := buf.EncodePNG()
	if err != nil {
		return errorValue(err)
	}
	return jsonValue(BakeResponse{
		Buffer: buf,
		PNG:    "data:image/png;base64," + base64.StdEncoding.EncodeToString(data),
	})
}

// bake is called from JavaScript with a JSON BakeRequest.
func bake(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorValue(fmt.Errorf("missing arguments"))
	}

	var req BakeRequest
	if err := json.Unmarshal([]byte(args[0].String()), &req); err != nil {
		return errorValue(fmt.Errorf("failed to parse request: %w", err))
	}
	if req.Width == 0 {
		req.Width = gradient.DefaultWidth
	}
	if req.Width < 0 || req.Width > gradient.MaxWidth {
		return errorValue(fmt.Errorf("width %d outside 1..%d", req.Width, gradient.MaxWidth))
	}
	mode, err := gradient.ParseSampleMode(req.Sampling)
	if err != nil {
		return errorValue(err)
	}
	g, err := req.Gradient.Build()
	if err != nil {
		return errorValue(err)
	}
	buf, err := gradient.Bake(g, req.Width, mode)
	if err != nil {
		return errorValue(err)
	}
	return encode(buf)
}

// noiseTables returns the encoded permutation and gradient buffers.
func noiseTables(this js.Value, args []js.Value) any {
	return map[string]any{
		"permutation": encode(lut.EncodePermutation(tables.Permutation())),
		"gradients":   encode(lut.EncodeGradients(tables.Gradients4D())),
	}
}

// builtinGradients returns the gradient configs shipped with the module.
func builtinGradients(this js.Value, args []js.Value) any {
	cfgs, err := gradient.LoadConfigs(bytes.NewReader(assets.DefaultGradients))
	if err != nil {
		return errorValue(err)
	}
	return jsonValue(cfgs)
}

func main() {
	c := make(chan struct{})

	js.Global().Set("noiselutBake", js.FuncOf(bake))
	js.Global().Set("noiselutTables", js.FuncOf(noiseTables))
	js.Global().Set("noiselutGradients", js.FuncOf(builtinGradients))

	fmt.Println("noiselut WASM module loaded")
	<-c
}
