package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFencedPlan(t *testing.T) {
	text := "Here is your plan:\n```json\n{\"title\":\"Focus Day\",\"schedule\":[{\"time\":\"09:00\",\"activity\":\"Deep work\"},{\"time\":\"12:00\",\"activity\":\"Review\"}]}\n```\nEnjoy!"

	got := Extract(text)
	require.Equal(t, KindPlan, got.Kind)
	require.NotNil(t, got.Plan)
	assert.Equal(t, "Focus Day", got.Plan.Title)
	require.Len(t, got.Plan.Schedule, 2)
	assert.Equal(t, "09:00", got.Plan.Schedule[0].Time)
	assert.Equal(t, "Deep work", got.Plan.Schedule[0].Activity)
	assert.Equal(t, text, got.Text)
}

func TestExtractFencedWithoutLanguageTag(t *testing.T) {
	text := "```\n{\"title\":\"Gym Week\",\"schedule\":[{\"time\":\"07:00\",\"activity\":\"Run\"}]}\n```"

	got := Extract(text)
	require.Equal(t, KindPlan, got.Kind)
	assert.Equal(t, "Gym Week", got.Plan.Title)
}

func TestExtractBareObject(t *testing.T) {
	text := `Sure! {"title":"Trip Prep","schedule":[{"time":"10:00","activity":"Pack"}]} let me know.`

	got := Extract(text)
	require.Equal(t, KindPlan, got.Kind)
	assert.Equal(t, "Trip Prep", got.Plan.Title)
}

func TestExtractTaskList(t *testing.T) {
	text := "```json\n{\"tasks\":[{\"title\":\"Buy tickets\"},{\"title\":\"Book hotel\",\"description\":\"Two nights\"}]}\n```"

	got := Extract(text)
	require.Equal(t, KindTasks, got.Kind)
	require.NotNil(t, got.Tasks)
	require.Len(t, got.Tasks.Tasks, 2)
	assert.Equal(t, "Buy tickets", got.Tasks.Tasks[0].Title)
	assert.Equal(t, "Two nights", got.Tasks.Tasks[1].Description)
	assert.Nil(t, got.Plan)
}

func TestExtractProseIsChat(t *testing.T) {
	got := Extract("What time do you usually wake up?")
	assert.Equal(t, KindChat, got.Kind)
	assert.Nil(t, got.Plan)
	assert.Nil(t, got.Tasks)
	assert.Equal(t, "What time do you usually wake up?", got.Text)
}

func TestExtractMalformedJSONIsChat(t *testing.T) {
	got := Extract("```json\n{\"title\": \"Broken\", \"schedule\": [\n```")
	assert.Equal(t, KindChat, got.Kind)
}

func TestExtractPlanNeedsTitleAndSchedule(t *testing.T) {
	// Title without schedule.
	got := Extract(`{"title":"No schedule here"}`)
	assert.Equal(t, KindChat, got.Kind)

	// Schedule without title.
	got = Extract(`{"schedule":[{"time":"09:00","activity":"Work"}]}`)
	assert.Equal(t, KindChat, got.Kind)

	// Empty schedule.
	got = Extract(`{"title":"Empty","schedule":[]}`)
	assert.Equal(t, KindChat, got.Kind)
}

func TestExtractPlanWinsOverTasks(t *testing.T) {
	text := `{"title":"Both","schedule":[{"time":"09:00","activity":"A"}],"tasks":[{"title":"ignored"}]}`

	got := Extract(text)
	assert.Equal(t, KindPlan, got.Kind)
	assert.Nil(t, got.Tasks)
}
