package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordKeepsInsertionOrder(t *testing.T) {
	rec := NewRecord()
	rec.Set(FieldProductPageURL, Text("http://example.test/a"))
	rec.Set(FieldTitle, Text("A"))
	rec.Set("number_available", Int(3))
	rec.Set(FieldTitle, Text("B"))

	assert.Equal(t, []string{FieldProductPageURL, FieldTitle, "number_available"}, rec.Keys())
	assert.Equal(t, "B", rec.Text(FieldTitle))
	assert.Equal(t, 3, rec.Len())
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "22", Int(22).String())
	assert.Equal(t, "£51.77", Text("£51.77").String())
	assert.Equal(t, "", NotRated.String())
	assert.True(t, NotRated.IsNotRated())
	assert.False(t, Int(0).IsNotRated())
}

func TestRecordMarshalJSON(t *testing.T) {
	rec := NewRecord()
	rec.Set(FieldTitle, Text("A \"quoted\" title"))
	rec.Set(FieldReviewRating, NotRated)
	rec.Set("number_available", Int(7))

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"A \"quoted\" title","review_rating":null,"number_available":7}`, string(data))
}

func TestSameKeys(t *testing.T) {
	a := NewRecord()
	a.Set("x", Int(1))
	a.Set("y", Int(2))

	b := NewRecord()
	b.Set("y", Text("2"))
	b.Set("x", Text("1"))

	c := NewRecord()
	c.Set("x", Int(1))
	c.Set("z", Int(2))

	assert.True(t, a.SameKeys(b))
	assert.False(t, a.SameKeys(c))
	assert.False(t, a.SameKeys(nil))
}

func TestValidateBatch(t *testing.T) {
	mk := func(url string, keys ...string) *Record {
		rec := NewRecord()
		rec.Set(FieldProductPageURL, Text(url))
		for _, k := range keys {
			rec.Set(k, Text(k))
		}
		return rec
	}

	ok := &CategoryBatch{
		Category: CategoryRef{Name: "Travel"},
		Records:  []*Record{mk("u1", "upc"), mk("u2", "upc")},
	}
	require.NoError(t, ValidateBatch(ok))

	ragged := &CategoryBatch{
		Category: CategoryRef{Name: "Travel"},
		Records:  []*Record{mk("u1", "upc"), mk("u2", "upc"), mk("u3", "upc", "tax")},
	}
	err := ValidateBatch(ragged)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInconsistentKeys))
	assert.Contains(t, err.Error(), "record 2 (u3)")

	assert.Error(t, ValidateBatch(&CategoryBatch{}))
}
