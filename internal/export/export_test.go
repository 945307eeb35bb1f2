package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alexanderramin/slotter/internal/app"
	"github.com/alexanderramin/slotter/internal/domain"
)

func samplePlan() *app.FinalPlan {
	monday := []app.FinalPlanRow{
		{Slot: "Maandag 18:00 - 19:30", Identity: "0611111111", Name: "Anna", Level: 6.5, Origin: domain.OriginAutomatic, Round: 1},
		{Slot: "Maandag 18:00 - 19:30", Identity: "0633333333", Name: "Cas", Origin: domain.OriginManual, Round: 1},
	}
	tuesday := []app.FinalPlanRow{
		{Slot: "Dinsdag 20:00 - Tom", Identity: "0622222222", Name: "Bob; jr", Level: 4, Origin: domain.OriginAutomatic, Round: 2},
	}
	return &app.FinalPlan{
		Period:      "najaar",
		GeneratedAt: time.Date(2025, 9, 3, 12, 0, 0, 0, time.UTC),
		Rows:        append(append([]app.FinalPlanRow{}, tuesday...), monday...),
		Slots: []app.SlotPlan{
			{Slot: "Maandag 18:00 - 19:30", Capacity: 8, Automatic: 1, Manual: 1, Rows: monday},
			{Slot: "Dinsdag 20:00 - Tom", Capacity: 6, Automatic: 1, Rows: tuesday},
			{Slot: "Vrijdag 19:00", Capacity: 4},
		},
		FullyResolved: true,
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(".XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, samplePlan(), false))

	want := "Slot;Phone;Name;Level;Origin;Round\n" +
		"Dinsdag 20:00 - Tom;0622222222;\"Bob; jr\";4;automatic;2\n" +
		"Maandag 18:00 - 19:30;0611111111;Anna;6.5;automatic;1\n" +
		"Maandag 18:00 - 19:30;0633333333;Cas;;manual;1\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_BOM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, samplePlan(), Options{CSVBOM: true}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF, 'S'}))
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, samplePlan()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Plan", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Plan")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, planHeader, rows[0])
	assert.Equal(t, []string{"Maandag 18:00 - 19:30", "0611111111", "Anna", "6.5", "automatic", "1"}, rows[2])
	assert.Equal(t, []string{"Maandag 18:00 - 19:30", "0633333333", "Cas", "", "manual", "1"}, rows[3])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 5)
	assert.Equal(t, []string{"Maandag 18:00 - 19:30", "8", "1", "1", "2"}, summary[1])
	assert.Equal(t, []string{"Vrijdag 19:00", "4", "0", "0", "0"}, summary[3])
	assert.Equal(t, []string{"Total", "18", "2", "1", "3"}, summary[4])
}

func TestWriteICS(t *testing.T) {
	var buf bytes.Buffer
	opts := ICSOptions{FirstWeek: time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC), Weeks: 12, Location: "Sporthal Noord"}
	require.NoError(t, WriteICS(&buf, samplePlan(), opts))

	cal, err := ics.ParseCalendar(strings.NewReader(buf.String()))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2, "slots without people get no event")

	monday := events[0]
	assert.Equal(t, "najaar-maandag-18-00---19-30@slotter", monday.Id())
	assert.Equal(t, "Training Maandag 18:00 - 19:30", monday.GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "20250908T180000", monday.GetProperty(ics.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20250908T193000", monday.GetProperty(ics.ComponentPropertyDtEnd).Value)
	assert.Equal(t, "FREQ=WEEKLY;COUNT=12", monday.GetProperty(ics.ComponentPropertyRrule).Value)
	assert.Equal(t, "Sporthal Noord", monday.GetProperty(ics.ComponentPropertyLocation).Value)

	tuesday := events[1]
	assert.Equal(t, "20250909T200000", tuesday.GetProperty(ics.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20250909T213000", tuesday.GetProperty(ics.ComponentPropertyDtEnd).Value, "default length applies")
}

func TestWriteICS_SkipsUnreadableSlots(t *testing.T) {
	plan := samplePlan()
	plan.Slots[0].Slot = "Someday 18:00"

	var buf bytes.Buffer
	err := WriteICS(&buf, plan, ICSOptions{})
	var skipped *SkippedSlotsError
	require.True(t, errors.As(err, &skipped))
	assert.Equal(t, []string{"Someday 18:00"}, skipped.Slots)
	assert.Contains(t, buf.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, buf.String(), "FREQ=WEEKLY")
	assert.NotContains(t, buf.String(), "COUNT=", "no end without a week count")
}

func TestSlotTimes(t *testing.T) {
	sunday := time.Date(2025, 9, 14, 9, 0, 0, 0, time.UTC)
	start, end, ok := slotTimes("zondag 10.00-11.15", sunday, time.Hour)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 9, 14, 10, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 9, 14, 11, 15, 0, 0, time.UTC), end)

	_, _, ok = slotTimes("Monday evening", sunday, time.Hour)
	assert.False(t, ok)
}
