package goodreads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseXML(t *testing.T) {
	root, err := ParseXML([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<GoodreadsResponse>
  <reviews start="1" end="2" total="2">
    <review>
      <id>11</id>
      <body><![CDATA[  Loved it &amp; more  ]]></body>
      <rating></rating>
      <shelves><shelf name="read" id="7" /></shelves>
    </review>
  </reviews>
</GoodreadsResponse>`))
	require.NoError(t, err)
	assert.Equal(t, "GoodreadsResponse", root.Name())

	reviews, err := root.RequiredChild("reviews")
	require.NoError(t, err)
	end, err := reviews.IntAttr("end")
	require.NoError(t, err)
	assert.Equal(t, 2, end)
	require.Len(t, reviews.Children, 1)

	review := reviews.Children[0]
	id, err := review.RequiredText("id")
	require.NoError(t, err)
	assert.Equal(t, "11", id)
	assert.Equal(t, "Loved it &amp; more", review.OptionalText("body"))

	rating, err := review.RequiredText("rating")
	require.NoError(t, err)
	assert.Empty(t, rating)

	shelf := review.Child("shelves").Child("shelf")
	require.NotNil(t, shelf)
	assert.Equal(t, "read", shelf.Attr("name"))
	assert.Equal(t, "7", shelf.Attr("id"))
	assert.Empty(t, shelf.Attr("missing"))
}

func TestNode_MissingElements(t *testing.T) {
	root, err := ParseXML([]byte(`<review><id>1</id><reviews end="x"/></review>`))
	require.NoError(t, err)

	_, err = root.RequiredText("book")
	var malformed *MalformedRecordError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "review", malformed.Record)
	assert.Equal(t, "book", malformed.Tag)
	assert.Equal(t, "malformed upstream record <review>: missing <book>", err.Error())

	assert.Empty(t, root.OptionalText("book"))
	assert.Nil(t, root.Child("book"))

	_, err = root.Child("reviews").IntAttr("end")
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "@end", malformed.Tag)
}

func TestParseXML_Invalid(t *testing.T) {
	_, err := ParseXML([]byte(""))
	assert.Error(t, err)
}
