package models

import (
	"encoding/json"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func sampleDashboard() Dashboard {
	return Dashboard{
		Widgets: []Widget{
			{Type: "clients", Enabled: Bool(true), Options: map[string]any{"limit": json.Number("10")}},
			{Type: "budgets", Enabled: Bool(false)},
			{Type: "messages", Enabled: Bool(true), Options: map[string]any{"title": "Inbox", "pinned": true}},
		},
	}
}

func sampleSidebar() Sidebar {
	return Sidebar{
		{Name: "Clients", Icon: "users", Color: "#1d4ed8", Target: "/clients"},
		{Name: "Services", Icon: "briefcase", Color: "#059669", Target: "/services"},
		{Name: "Courses", Icon: "graduation-cap"},
	}
}

func TestDashboard_JSONForms(t *testing.T) {
	d := sampleDashboard()

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, byte('['), out[0], "no toggles must give the array form")

	d.Toggles = map[string]bool{"messages": false}
	out, err = json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, byte('{'), out[0], "toggles must give the object form")

	var back Dashboard
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, d, back)
}

func TestWidget_ExtraOptionsRoundTrip(t *testing.T) {
	in := `{"type":"clients","enabled":true,"limit":5,"filter":{"status":"active"}}`

	var w Widget
	require.NoError(t, json.Unmarshal([]byte(in), &w))

	assert.Equal(t, "clients", w.Type)
	assert.True(t, w.IsEnabled())
	assert.Equal(t, json.Number("5"), w.Options["limit"])
	assert.Equal(t, map[string]any{"status": "active"}, w.Options["filter"])

	out, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestWidget_LargeIntegerOptionsExact(t *testing.T) {
	in := `[{"type":"clients","enabled":true,"clientId":9007199254740993,"ratio":0.1}]`

	var d Dashboard
	require.NoError(t, json.Unmarshal([]byte(in), &d))
	assert.Equal(t, json.Number("9007199254740993"), d.Widgets[0].Options["clientId"])

	stored, err := d.Value()
	require.NoError(t, err)

	back := ParseDashboard(stored)

	out, err := json.Marshal(back)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"clientId":9007199254740993`)
	assert.JSONEq(t, in, string(out))
}

func TestWidget_UnmarshalRejectsWrongTypes(t *testing.T) {
	var w Widget

	require.Error(t, json.Unmarshal([]byte(`{"type":3,"enabled":true}`), &w))
	require.Error(t, json.Unmarshal([]byte(`{"type":"x","enabled":"yes"}`), &w))
	require.Error(t, json.Unmarshal([]byte(`null`), &w))
}

func TestDashboard_Visible(t *testing.T) {
	d := Dashboard{
		Widgets: []Widget{
			{Type: "clients", Enabled: Bool(true)},
			{Type: "budgets", Enabled: Bool(true)},
			{Type: "messages", Enabled: Bool(false)},
			{Type: "courses"},
		},
		Toggles: map[string]bool{"budgets": false, "clients": true},
	}

	visible := d.VisibleWidgets()
	require.Len(t, visible, 1)
	assert.Equal(t, "clients", visible[0].Type)

	assert.False(t, d.Visible(d.Widgets[1]), "type toggle off hides an enabled widget")
	assert.False(t, d.Visible(d.Widgets[2]), "disabled widget stays hidden")
	assert.False(t, d.Visible(d.Widgets[3]), "missing enabled flag counts as disabled")
}

func TestDashboard_Validate(t *testing.T) {
	require.NoError(t, sampleDashboard().Validate())
	require.NoError(t, Dashboard{}.Validate())

	missingType := Dashboard{Widgets: []Widget{{Enabled: Bool(true)}}}
	require.Error(t, missingType.Validate())

	missingEnabled := Dashboard{Widgets: []Widget{{Type: "clients"}}}
	require.Error(t, missingEnabled.Validate())
}

func TestSidebar_Validate(t *testing.T) {
	require.NoError(t, sampleSidebar().Validate())
	require.NoError(t, Sidebar(nil).Validate())

	require.Error(t, Sidebar{{Icon: "users"}}.Validate())
	require.Error(t, Sidebar{{Name: "Clients"}}.Validate())
}

func TestParseDashboard_Representations(t *testing.T) {
	want := sampleDashboard()

	encoded, err := json.Marshal(want)
	require.NoError(t, err)

	doubleEncoded, err := json.Marshal(string(encoded))
	require.NoError(t, err)

	var structured any
	require.NoError(t, json.Unmarshal(encoded, &structured))

	testCases := []struct {
		name string
		raw  any
		want Dashboard
	}{
		{name: "bytes", raw: encoded, want: want},
		{name: "text", raw: string(encoded), want: want},
		{name: "serialized text", raw: string(doubleEncoded), want: want},
		{name: "already structured", raw: structured, want: want},
		{name: "document value", raw: want, want: want},
		{name: "nil", raw: nil, want: Dashboard{}},
		{name: "empty string", raw: "", want: Dashboard{}},
		{name: "json null", raw: "null", want: Dashboard{}},
		{name: "empty array", raw: "[]", want: Dashboard{}},
		{name: "garbage", raw: "{not json", want: Dashboard{}},
		{name: "serialized garbage", raw: `"{not json"`, want: Dashboard{}},
		{name: "wrong shape", raw: `42`, want: Dashboard{}},
		{name: "blank serialized", raw: `"  "`, want: Dashboard{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseDashboard(tc.raw))
		})
	}
}

func TestParseSidebar_Representations(t *testing.T) {
	want := sampleSidebar()

	encoded, err := json.Marshal(want)
	require.NoError(t, err)

	doubleEncoded, err := json.Marshal(string(encoded))
	require.NoError(t, err)

	testCases := []struct {
		name string
		raw  any
		want Sidebar
	}{
		{name: "bytes", raw: encoded, want: want},
		{name: "text", raw: string(encoded), want: want},
		{name: "serialized text", raw: doubleEncoded, want: want},
		{name: "nil", raw: nil, want: nil},
		{name: "object instead of array", raw: `{"name":"x"}`, want: nil},
		{name: "garbage", raw: []byte("]["), want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseSidebar(tc.raw))
		})
	}
}

func TestSidebar_PreservesOrder(t *testing.T) {
	in := Sidebar{
		{Name: "Zeta", Icon: "z"},
		{Name: "Alpha", Icon: "a"},
		{Name: "Mid", Icon: "m"},
	}

	v, err := in.Value()
	require.NoError(t, err)

	var out Sidebar
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
}

func TestDocuments_ValueOfEmpty(t *testing.T) {
	v, err := Dashboard{}.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = Sidebar(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// one connection, every new one would open a fresh in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db), "failed to migrate test database")

	return db
}

func TestRole_DocumentsRoundTripThroughStore(t *testing.T) {
	db := setupTestDB(t)

	dash := sampleDashboard()
	dash.Toggles = map[string]bool{"budgets": true}

	role := Role{Name: "coordinator", DashboardConfig: dash, SidebarItems: sampleSidebar()}
	require.NoError(t, db.Create(&role).Error)

	var loaded Role
	require.NoError(t, db.First(&loaded, role.ID).Error)
	assert.Equal(t, dash, loaded.DashboardConfig)
	assert.Equal(t, sampleSidebar(), loaded.SidebarItems)
}

func TestRole_LegacySerializedTextColumn(t *testing.T) {
	db := setupTestDB(t)

	role := Role{Name: "legacy"}
	require.NoError(t, db.Create(&role).Error)

	encoded, err := json.Marshal(sampleSidebar())
	require.NoError(t, err)

	doubleEncoded, err := json.Marshal(string(encoded))
	require.NoError(t, err)

	// rows written by older releases stored the document as a JSON string
	require.NoError(t, db.Exec(
		"UPDATE roles SET sidebar_items = ?, dashboard_config = ? WHERE id = ?",
		string(doubleEncoded), "definitely not json", role.ID,
	).Error)

	var loaded Role
	require.NoError(t, db.First(&loaded, role.ID).Error)
	assert.Equal(t, sampleSidebar(), loaded.SidebarItems)
	assert.Equal(t, Dashboard{}, loaded.DashboardConfig)
}
