package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/pitfeat/internal/contract"
)

func TestClassify(t *testing.T) {
	r := Default()
	names := []string{"DispatchHour", "DispatchType", "LabelSustained", "DispatchSubType", "MedianAgeInCT"}

	c, err := r.Classify(names)
	require.NoError(t, err)
	assert.Equal(t, []string{"DispatchType", "DispatchSubType"}, c.Categorical)
	assert.Equal(t, []string{"LabelSustained"}, c.Label)
	assert.Equal(t, []string{"DispatchHour", "LabelSustained", "MedianAgeInCT"}, c.Numeric)
}

func TestClassifyPartitionsEveryName(t *testing.T) {
	r := Default()
	all := append(r.Names("officer"), r.Names("dispatch")...)

	c, err := r.Classify(all)
	require.NoError(t, err)
	assert.Len(t, c.Categorical, 2)
	assert.Len(t, c.Label, 3)
	assert.Len(t, c.Categorical, len(all)-len(c.Numeric))

	union := map[string]int{}
	for _, n := range c.Categorical {
		union[n]++
	}
	for _, n := range c.Numeric {
		union[n]++
	}
	assert.Len(t, union, len(all))
	for name, count := range union {
		assert.Equal(t, 1, count, name)
	}
	for _, n := range c.Label {
		assert.Contains(t, c.Numeric, n)
	}
}

func TestClassifyCollapsesDuplicates(t *testing.T) {
	c, err := Default().Classify([]string{"DispatchType", "DispatchType", "DispatchHour"})
	require.NoError(t, err)
	assert.Equal(t, []string{"DispatchType"}, c.Categorical)
	assert.Equal(t, []string{"DispatchHour"}, c.Numeric)
}

func TestClassifyEmpty(t *testing.T) {
	c, err := Default().Classify(nil)
	require.NoError(t, err)
	assert.Empty(t, c.Categorical)
	assert.Empty(t, c.Label)
	assert.Empty(t, c.Numeric)
}

func TestClassifyUnknownAborts(t *testing.T) {
	_, err := Default().Classify([]string{"DispatchHour", "Bogus", "DispatchType"})
	var ufe *contract.UnknownFeatureError
	require.ErrorAs(t, err, &ufe)
	assert.Equal(t, "Bogus", ufe.Name)
}

func TestCategoricalAndLabelFeatures(t *testing.T) {
	r := Default()
	cat, err := r.CategoricalFeatures([]string{"DispatchType", "DispatchHour"})
	require.NoError(t, err)
	assert.Equal(t, []string{"DispatchType"}, cat)

	labels, err := r.LabelFeatures([]string{"LabelPreventable", "DispatchHour"})
	require.NoError(t, err)
	assert.Equal(t, []string{"LabelPreventable"}, labels)

	_, err = r.LabelFeatures([]string{"Nope"})
	assert.Error(t, err)
	_, err = r.CategoricalFeatures([]string{"Nope"})
	assert.Error(t, err)
}
