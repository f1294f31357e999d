package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBookUsageCoercion(t *testing.T) {
	body := []byte(`[
		["Algebra","B1","12","100","2","1",88.5,"img.png","path.pdf"],
		["Short","B2"],
		["Long","B3",1,"1","1","1",1,"a","b","extra",42],
		["Bad","B4","n/a",200,null,"x",null,"",""]
	]`)

	usage, err := DecodeBookUsage(body)
	require.NoError(t, err)
	require.Len(t, usage, 4)

	assert.Equal(t, 12, usage[0].TotalQuestions)
	assert.Equal(t, 88.5, usage[0].AverageScore)

	assert.Equal(t, "Short", usage[1].BookName)
	assert.Equal(t, 0, usage[1].TotalQuestions)
	assert.Empty(t, usage[1].DocumentPath)

	assert.Equal(t, "b", usage[2].DocumentPath)

	assert.Equal(t, 0, usage[3].TotalQuestions)
	assert.Equal(t, "200", usage[3].TokensUsed)
	assert.Empty(t, usage[3].QuestionTypes)
}

func TestDecodeBookUsageEnvelope(t *testing.T) {
	usage, err := DecodeBookUsage([]byte(`{"data":[["Geo","G1",3]]}`))
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, 3, usage[0].TotalQuestions)
}
