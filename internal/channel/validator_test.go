package channel

import (
	"fmt"
	"testing"

	"github.com/jmehdipour/omnichannel/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample builds a valid content value for each catalogued tag.
func sample(t model.ContentType) model.Content {
	switch t {
	case model.ContentTypeText:
		return model.NewTextContent("hi")
	case model.ContentTypeFile:
		return model.NewFileContent("http://x/a.png", "image/png", "")
	case model.ContentTypeTemplate:
		return model.NewTemplateContent("t1", nil)
	case model.ContentTypeContacts:
		return model.NewContactsContent(model.Contact{Name: &model.ContactName{FormattedName: "Ana", FirstName: "Ana"}})
	case model.ContentTypeLocation:
		return model.NewLocationContent(-46.6, -23.5, "", "", "")
	case model.ContentTypeJSON:
		return model.NewJSONContent(map[string]any{"k": "v"})
	case model.ContentTypeEmail:
		return model.NewEmailContent("Subject", "", "body")
	case model.ContentTypeCard:
		return model.CardContent{Title: "Card"}
	case model.ContentTypeCarousel:
		return model.NewCarouselContent(model.CardWidthMedium, model.CardContent{Text: "one"})
	case model.ContentTypeReplyableText:
		return model.NewReplyableTextContent("choose")
	}
	panic("no sample for " + string(t))
}

func TestValidateMatchesSupportedSet(t *testing.T) {
	for _, ch := range model.Channels() {
		v, err := NewValidator(ch)
		require.NoError(t, err)
		for _, ct := range model.ContentTypes() {
			err := v.Validate(sample(ct))
			if v.Supports(ct) {
				assert.NoError(t, err, "%s/%s", ch, ct)
				continue
			}
			want := fmt.Sprintf("Content of type %s is not supported in %s channel", ct, DisplayName(ch))
			assert.EqualError(t, err, want, "%s/%s", ch, ct)
		}
	}
}

func TestSupportedSets(t *testing.T) {
	cases := map[model.Channel][]model.ContentType{
		model.ChannelSMS:      {model.ContentTypeText},
		model.ChannelWhatsApp: {model.ContentTypeText, model.ContentTypeFile, model.ContentTypeTemplate, model.ContentTypeContacts, model.ContentTypeLocation},
		model.ChannelEmail:    {model.ContentTypeEmail},
		model.ChannelGBM:      {model.ContentTypeText, model.ContentTypeFile, model.ContentTypeCard, model.ContentTypeCarousel, model.ContentTypeReplyableText},
		model.ChannelFacebook: {model.ContentTypeText, model.ContentTypeFile},
	}
	for ch, want := range cases {
		v, err := NewValidator(ch)
		require.NoError(t, err)
		assert.Equal(t, want, v.SupportedTypes(), ch)
	}
}

func TestTemplateOnSMS(t *testing.T) {
	v, err := NewValidator(model.ChannelSMS)
	require.NoError(t, err)

	err = v.Validate(model.NewTemplateContent("t1", map[string]string{}))
	assert.EqualError(t, err, "Content of type template is not supported in SMS channel")

	var uerr *UnsupportedContentError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, model.ContentTypeTemplate, uerr.ContentType)
	assert.Equal(t, model.ChannelSMS, uerr.Channel)
}

func TestMissingTagRendersUndefined(t *testing.T) {
	v, err := NewValidator(model.ChannelEmail)
	require.NoError(t, err)

	assert.EqualError(t, v.Validate(model.RawContent{}), "Content of type undefined is not supported in E-mail channel")
	assert.EqualError(t, v.Validate(nil), "Content of type undefined is not supported in E-mail channel")
}

func TestRequiredFieldsCheckedAfterTag(t *testing.T) {
	v, err := NewValidator(model.ChannelWhatsApp)
	require.NoError(t, err)

	var verr *model.ValidationError
	require.ErrorAs(t, v.Validate(model.NewFileContent("", "image/png", "")), &verr)
	assert.Equal(t, "fileUrl", verr.Field)
}

func TestRawContentCheckedAsItsVariant(t *testing.T) {
	v, err := NewValidator(model.ChannelSMS)
	require.NoError(t, err)

	var verr *model.ValidationError
	require.ErrorAs(t, v.Validate(model.RawContent{"type": "text"}), &verr)
	assert.Equal(t, "text", verr.Field)
	assert.NoError(t, v.Validate(model.RawContent{"type": "text", "text": "hi"}))
}

func TestValidateAllStopsAtFirstFailure(t *testing.T) {
	v, err := NewValidator(model.ChannelFacebook)
	require.NoError(t, err)

	err = v.ValidateAll([]model.Content{
		model.NewTextContent("ok"),
		model.NewTemplateContent("t1", nil),
		model.NewLocationContent(0, 0, "", "", ""),
	})
	assert.EqualError(t, err, "Content of type template is not supported in Facebook channel")
}

func TestUnknownChannel(t *testing.T) {
	_, err := NewValidator(model.Channel("pager"))
	assert.ErrorIs(t, err, ErrUnsupportedChannel)
	assert.Equal(t, "", DisplayName(model.Channel("pager")))
}
