package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccident_DecodesStringAndNumericFields(t *testing.T) {
	var a Accident
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","address":"12 Main St","latitude":"28.7","longitude":77.1,"severityInPercentage":87.5}`), &a))

	assert.Equal(t, FlexString("28.7"), a.Latitude)
	assert.Equal(t, FlexString("77.1"), a.Longitude)
	assert.Equal(t, FlexString("87.5"), a.SeverityInPercentage)
	assert.Equal(t, AccidentLocation{Address: "12 Main St", Latitude: "28.7", Longitude: "77.1"}, a.Location())
}

func TestAccident_NullCoordinates(t *testing.T) {
	var a Accident
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","address":"x","latitude":null}`), &a))
	assert.False(t, a.Location().HasCoordinates())

	assert.Error(t, json.Unmarshal([]byte(`{"latitude":true}`), &a))
}
