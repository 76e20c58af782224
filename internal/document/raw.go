package document

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Load parses a raw JSON payload into Content. An empty payload yields an
// empty document.
func Load(payload string) (*Content, error) {
	if payload == "" {
		return NewContent(), nil
	}
	if !gjson.Valid(payload) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidPayload)
	}
	root := gjson.Parse(payload)
	rawBlocks := root.Get("blocks")
	if !rawBlocks.IsArray() {
		return nil, fmt.Errorf("%w: missing blocks array", ErrInvalidPayload)
	}

	c := NewContent()
	keyMap := map[string]string{}
	var loadErr error
	root.Get("entityMap").ForEach(func(k, v gjson.Result) bool {
		typ := v.Get("type").String()
		if typ == "" {
			loadErr = fmt.Errorf("%w: entity %s has no type", ErrInvalidPayload, k.String())
			return false
		}
		data, _ := v.Get("data").Value().(map[string]any)
		var key string
		c, key = c.CreateEntity(typ, Mutability(v.Get("mutability").String()), data)
		keyMap[k.String()] = key
		return true
	})
	if loadErr != nil {
		return nil, loadErr
	}

	var blocks []*Block
	for i, rb := range rawBlocks.Array() {
		b, err := loadBlock(rb, keyMap)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		blocks = append(blocks, b)
	}
	if len(blocks) == 0 {
		blocks = []*Block{NewBlock("", BlockUnstyled, "")}
	}
	sel := Collapsed(blocks[0].key, 0)
	return c.derive(blocks, c.entities, sel, sel), nil
}

func loadBlock(rb gjson.Result, keyMap map[string]string) (*Block, error) {
	b := NewBlock(rb.Get("key").String(), BlockType(rb.Get("type").String()), rb.Get("text").String())
	b.depth = int(rb.Get("depth").Int())
	if data, ok := rb.Get("data").Value().(map[string]any); ok && len(data) > 0 {
		b.data = data
	}
	n := b.Len()
	for _, r := range rb.Get("inlineStyleRanges").Array() {
		off, length := int(r.Get("offset").Int()), int(r.Get("length").Int())
		if off < 0 || length < 0 || off+length > n {
			return nil, fmt.Errorf("%w: style range [%d,%d) outside text", ErrInvalidPayload, off, off+length)
		}
		style := r.Get("style").String()
		for j := off; j < off+length; j++ {
			b.chars[j].Style = b.chars[j].Style.Add(style)
		}
	}
	for _, r := range rb.Get("entityRanges").Array() {
		off, length := int(r.Get("offset").Int()), int(r.Get("length").Int())
		if off < 0 || length < 0 || off+length > n {
			return nil, fmt.Errorf("%w: entity range [%d,%d) outside text", ErrInvalidPayload, off, off+length)
		}
		key, ok := keyMap[r.Get("key").String()]
		if !ok {
			return nil, fmt.Errorf("%w: key %s", ErrEntityNotFound, r.Get("key").String())
		}
		for j := off; j < off+length; j++ {
			b.chars[j].Entity = key
		}
	}
	return b, nil
}

// Save serializes content into the raw JSON payload. Entity keys are
// renumbered from 0 in order of first reference; unreferenced entities are
// not written.
func Save(c *Content) (string, error) {
	out := `{"blocks":[],"entityMap":{}}`
	rawKeys := map[string]string{}
	entityMap := map[string]any{}
	var err error

	for _, b := range c.blocks {
		entityRanges := []map[string]any{}
		for _, r := range b.EntityRanges() {
			raw, ok := rawKeys[r.Value]
			if !ok {
				e, found := c.entities[r.Value]
				if !found {
					return "", fmt.Errorf("%w: %s", ErrEntityNotFound, r.Value)
				}
				raw = strconv.Itoa(len(rawKeys))
				rawKeys[r.Value] = raw
				entityMap[raw] = map[string]any{
					"type":       e.typ,
					"mutability": string(e.mutability),
					"data":       e.Data(),
				}
			}
			n, _ := strconv.Atoi(raw)
			entityRanges = append(entityRanges, map[string]any{"offset": r.Offset, "length": r.Length, "key": n})
		}
		styleRanges := []map[string]any{}
		for _, r := range b.StyleRanges() {
			styleRanges = append(styleRanges, map[string]any{"offset": r.Offset, "length": r.Length, "style": r.Value})
		}
		data := b.data
		if data == nil {
			data = map[string]any{}
		}
		out, err = sjson.Set(out, "blocks.-1", map[string]any{
			"key":               b.key,
			"text":              string(b.text),
			"type":              string(b.typ),
			"depth":             b.depth,
			"inlineStyleRanges": styleRanges,
			"entityRanges":      entityRanges,
			"data":              data,
		})
		if err != nil {
			return "", fmt.Errorf("encode block %s: %w", b.key, err)
		}
	}
	out, err = sjson.Set(out, "entityMap", entityMap)
	if err != nil {
		return "", fmt.Errorf("encode entity map: %w", err)
	}
	return out, nil
}

// SaveIndent is Save with indented output.
func SaveIndent(c *Content) (string, error) {
	out, err := Save(c)
	if err != nil {
		return "", err
	}
	return string(pretty.Pretty([]byte(out))), nil
}
