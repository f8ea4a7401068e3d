package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusOptionsScanRoundTrip(t *testing.T) {
	options := StatusOptions{
		{Label: "Not Started", Order: 1},
		{Label: "In Progress", Order: 2},
		{Label: "Complete", IsCompletion: true, Order: 3},
	}

	value, err := options.Value()
	require.NoError(t, err)

	var scanned StatusOptions
	require.NoError(t, scanned.Scan(value))
	require.Equal(t, options, scanned)
	require.True(t, scanned[2].IsCompletion)
}

func TestStatusOptionsScanNil(t *testing.T) {
	var options StatusOptions
	require.NoError(t, options.Scan(nil))
	require.Nil(t, options)

	value, err := options.Value()
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestStatusOptionsScanRejectsUnknownType(t *testing.T) {
	var options StatusOptions
	require.Error(t, options.Scan(42))
}

func TestItemFromTemplateCopiesByValue(t *testing.T) {
	templateItem := TemplateItem{
		Base:       Base{UUID: "ti-1"},
		TemplateID: "tpl-1",
		Label:      "Radio check",
		Notes:      "Channel 3",
		ItemType:   StatusItemType,
		IsRequired: true,
		StatusOptions: StatusOptions{
			{Label: "Not Started", Order: 1},
			{Label: "Complete", IsCompletion: true, Order: 2},
		},
		DisplayOrder: 4,
	}

	item := ItemFromTemplate(templateItem)

	require.Empty(t, item.UUID)
	require.Empty(t, item.ChecklistInstanceID)
	require.Equal(t, templateItem.Label, item.Label)
	require.Equal(t, templateItem.Notes, item.Notes)
	require.Equal(t, templateItem.ItemType, item.ItemType)
	require.Equal(t, templateItem.IsRequired, item.IsRequired)
	require.Equal(t, templateItem.DisplayOrder, item.DisplayOrder)
	require.Nil(t, item.IsCompleted)
	require.Nil(t, item.CurrentStatus)

	// Mutating the template's options afterwards must not reach the copy
	templateItem.StatusOptions[0].Label = "Renamed"
	require.Equal(t, "Not Started", item.StatusOptions[0].Label)
}

func TestItemFromTemplateWithoutOptions(t *testing.T) {
	item := ItemFromTemplate(TemplateItem{
		Label:    "Sign in",
		ItemType: CheckboxItemType,
	})
	require.Nil(t, item.StatusOptions)
}
