package model

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// catalog maps each content tag to a factory for its variant.
var catalog = map[ContentType]func() Content{
	ContentTypeText:          func() Content { return &TextContent{} },
	ContentTypeFile:          func() Content { return &FileContent{} },
	ContentTypeTemplate:      func() Content { return &TemplateContent{} },
	ContentTypeContacts:      func() Content { return &ContactsContent{} },
	ContentTypeLocation:      func() Content { return &LocationContent{} },
	ContentTypeJSON:          func() Content { return &JSONContent{} },
	ContentTypeEmail:         func() Content { return &EmailContent{} },
	ContentTypeCard:          func() Content { return &CardContent{} },
	ContentTypeCarousel:      func() Content { return &CarouselContent{} },
	ContentTypeReplyableText: func() Content { return &ReplyableTextContent{} },
}

// ContentTypes returns every tag known to the catalog.
func ContentTypes() []ContentType {
	return []ContentType{
		ContentTypeText,
		ContentTypeFile,
		ContentTypeTemplate,
		ContentTypeContacts,
		ContentTypeLocation,
		ContentTypeJSON,
		ContentTypeEmail,
		ContentTypeCard,
		ContentTypeCarousel,
		ContentTypeReplyableText,
	}
}

// Known reports whether t is a catalogued content tag.
func (t ContentType) Known() bool {
	_, ok := catalog[t]
	return ok
}

// DecodeContent turns one JSON object into its typed variant. The object comes
// back as RawContent, unchanged, when its tag is absent or not catalogued, when
// it does not fit the variant's field types, or when it carries members the
// variant does not declare. Only input that is not a JSON object is an error.
func DecodeContent(data []byte) (Content, error) {
	var raw RawContent
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if raw == nil {
		raw = RawContent{}
	}

	t := raw.Type()
	if !t.Known() {
		return raw, nil
	}
	c, err := decodeVariant(t, data)
	if err != nil {
		return raw, nil
	}
	extra := undeclared(data, reflect.TypeOf(c))
	delete(extra, "type")
	if len(extra) > 0 {
		return raw, nil
	}
	return c, nil
}

// decodeVariant decodes data strictly into the catalogued variant for t.
func decodeVariant(t ContentType, data []byte) (Content, error) {
	factory, ok := catalog[t]
	if !ok {
		return nil, fmt.Errorf("%s content: unknown type", t)
	}
	ptr := factory()
	if err := json.Unmarshal(data, ptr); err != nil {
		return nil, fmt.Errorf("decode %s content: %w", t, err)
	}
	return deref(ptr), nil
}

// deref hands variants back by value so callers see the same shapes the
// constructors return.
func deref(c Content) Content {
	switch v := c.(type) {
	case *TextContent:
		return *v
	case *FileContent:
		return *v
	case *TemplateContent:
		return *v
	case *ContactsContent:
		return *v
	case *LocationContent:
		return *v
	case *JSONContent:
		return *v
	case *EmailContent:
		return *v
	case *CardContent:
		return *v
	case *CarouselContent:
		return *v
	case *ReplyableTextContent:
		return *v
	default:
		return c
	}
}

// Contents is an ordered list of content items that decodes through the catalog.
type Contents []Content

func (cs *Contents) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("decode contents: %w", err)
	}
	out := make(Contents, 0, len(raws))
	for i, raw := range raws {
		c, err := DecodeContent(raw)
		if err != nil {
			return fmt.Errorf("contents[%d]: %w", i, err)
		}
		out = append(out, c)
	}
	*cs = out
	return nil
}

func (cs Contents) MarshalJSON() ([]byte, error) {
	if cs == nil {
		return []byte("[]"), nil
	}
	items := make([]any, len(cs))
	for i, c := range cs {
		if c == nil {
			items[i] = RawContent{}
			continue
		}
		items[i] = c
	}
	return json.Marshal(items)
}
