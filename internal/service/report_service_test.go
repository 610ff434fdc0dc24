package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cfs-facility/rapportini-service/internal/model"
)

type fakeReportStore struct {
	reports   map[string][]model.Report // date -> reports
	groups    []model.DayGroup
	insertErr error
	deleteErr error
	listErr   error
	inserted  []model.Report
	deleted   []uuid.UUID
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{reports: make(map[string][]model.Report)}
}

func (f *fakeReportStore) Insert(_ context.Context, report model.Report) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, report)
	f.reports[report.Date] = append(f.reports[report.Date], report)
	return nil
}

func (f *fakeReportStore) Delete(_ context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeReportStore) ListByDate(_ context.Context, _, date string) ([]model.Report, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.reports[date], nil
}

func (f *fakeReportStore) ListDayGroups(_ context.Context, _ string) ([]model.DayGroup, error) {
	return f.groups, nil
}

func (f *fakeReportStore) ListByMonth(_ context.Context, _, month string) ([]model.Report, error) {
	var out []model.Report
	for date, reports := range f.reports {
		if len(date) >= 7 && date[:7] == month {
			out = append(out, reports...)
		}
	}
	return out, nil
}

type fakeFlagStore struct {
	flags   map[string]*model.DayFlags
	sentErr error
}

func newFakeFlagStore() *fakeFlagStore {
	return &fakeFlagStore{flags: make(map[string]*model.DayFlags)}
}

func (f *fakeFlagStore) Flags(_ context.Context) ([]model.DayFlags, error) {
	dates := make([]string, 0, len(f.flags))
	for date := range f.flags {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	out := make([]model.DayFlags, 0, len(dates))
	for _, date := range dates {
		out = append(out, *f.flags[date])
	}
	return out, nil
}

func (f *fakeFlagStore) entry(date string) *model.DayFlags {
	if f.flags[date] == nil {
		f.flags[date] = &model.DayFlags{Date: date}
	}
	return f.flags[date]
}

func (f *fakeFlagStore) MarkClosed(_ context.Context, date string) error {
	f.entry(date).Closed = true
	return nil
}

func (f *fakeFlagStore) MarkSent(_ context.Context, dates []string) error {
	if f.sentErr != nil {
		return f.sentErr
	}
	for _, date := range dates {
		f.entry(date).Sent = true
	}
	return nil
}

func (f *fakeFlagStore) MarkUnsent(_ context.Context, date string) error {
	f.entry(date).Sent = false
	return nil
}

func (f *fakeFlagStore) sentDates() []string {
	var out []string
	for date, flags := range f.flags {
		if flags.Sent {
			out = append(out, date)
		}
	}
	sort.Strings(out)
	return out
}

type fakeComposer struct {
	failDate string
	composed []string
}

func (f *fakeComposer) ComposeDay(reports []model.Report, date, technician string) ([]model.GeneratedFile, error) {
	f.composed = append(f.composed, date)
	files := []model.GeneratedFile{{
		FileName: fmt.Sprintf("Rapportino_%s_%s.pdf", technician, date),
		Content:  []byte("pdf"),
	}}
	if date == f.failDate {
		return files, errors.New("render failed")
	}
	return files, nil
}

type fakeRecap struct{}

func (fakeRecap) Generate(_, _ string, _ []model.Report) ([]byte, error) {
	return []byte("xlsx"), nil
}

func technicianPrincipal(name string) model.Principal {
	return model.Principal{UserID: uuid.New(), TechnicianName: name, Role: "TECHNICIAN"}
}

func backOfficePrincipal() model.Principal {
	return model.Principal{UserID: uuid.New(), Role: "BACK_OFFICE"}
}

func newTestService() (*ReportService, *fakeReportStore, *fakeFlagStore, *fakeComposer) {
	reports := newFakeReportStore()
	flags := newFakeFlagStore()
	composer := &fakeComposer{}
	return NewReportService(reports, flags, composer, fakeRecap{}), reports, flags, composer
}

func TestAddReport(t *testing.T) {
	svc, store, _, _ := newTestService()
	principal := technicianPrincipal("Mario Rossi")

	report, err := svc.AddReport(context.Background(), principal, AddReportInput{
		TechnicianName:    "Mario Rossi",
		Location:          " Site A ",
		Description:       "routine check",
		Date:              "2024-05-01",
		WorkType:          model.WorkTypeOrdinary,
		InterventionHours: 3,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.Equal(t, "Site A", report.Location)
	require.Len(t, store.inserted, 1)
}

func TestAddReportValidation(t *testing.T) {
	svc, _, _, _ := newTestService()
	principal := technicianPrincipal("Mario Rossi")

	valid := AddReportInput{
		TechnicianName:    "Mario Rossi",
		Location:          "Site A",
		Description:       "work",
		Date:              "2024-05-01",
		WorkType:          model.WorkTypeOrdinary,
		InterventionHours: 1,
	}

	tests := []struct {
		name   string
		mutate func(*AddReportInput)
	}{
		{"bad date", func(in *AddReportInput) { in.Date = "01/05/2024" }},
		{"bad work type", func(in *AddReportInput) { in.WorkType = "overtime" }},
		{"negative hours", func(in *AddReportInput) { in.InterventionHours = -1 }},
		{"negative travel", func(in *AddReportInput) { in.TravelHours = -0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			_, err := svc.AddReport(context.Background(), principal, input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestAddReportZeroesTravelOutsideOnCall(t *testing.T) {
	svc, _, _, _ := newTestService()
	principal := technicianPrincipal("Mario Rossi")

	report, err := svc.AddReport(context.Background(), principal, AddReportInput{
		TechnicianName:    "Mario Rossi",
		Location:          "Site A",
		Description:       "work",
		Date:              "2024-05-01",
		WorkType:          model.WorkTypeOrdinary,
		InterventionHours: 3,
		TravelHours:       2,
	})

	require.NoError(t, err)
	assert.Zero(t, report.TravelHours)
}

func TestAddReportKeepsTravelForOnCall(t *testing.T) {
	svc, _, _, _ := newTestService()
	principal := technicianPrincipal("Mario Rossi")

	report, err := svc.AddReport(context.Background(), principal, AddReportInput{
		TechnicianName:    "Mario Rossi",
		Location:          "Site A",
		Description:       "night call",
		Date:              "2024-05-01",
		WorkType:          model.WorkTypeOnCall,
		InterventionHours: 2,
		TravelHours:       1,
	})

	require.NoError(t, err)
	assert.Equal(t, 1.0, report.TravelHours)
}

func TestAddReportDeniedForOtherTechnician(t *testing.T) {
	svc, _, _, _ := newTestService()
	principal := technicianPrincipal("Mario Rossi")

	_, err := svc.AddReport(context.Background(), principal, AddReportInput{
		TechnicianName:    "Luca Bianchi",
		Date:              "2024-05-01",
		WorkType:          model.WorkTypeOrdinary,
		InterventionHours: 1,
	})

	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestAddReportAllowedForBackOffice(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.AddReport(context.Background(), backOfficePrincipal(), AddReportInput{
		TechnicianName:    "Luca Bianchi",
		Date:              "2024-05-01",
		WorkType:          model.WorkTypeOrdinary,
		InterventionHours: 1,
	})

	assert.NoError(t, err)
}

func TestDeleteReportNotFound(t *testing.T) {
	svc, store, _, _ := newTestService()
	store.deleteErr = gorm.ErrRecordNotFound

	err := svc.DeleteReport(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListDaysMergesFlags(t *testing.T) {
	svc, store, flags, _ := newTestService()
	store.groups = []model.DayGroup{
		{Date: "2024-05-02", ReportCount: 1},
		{Date: "2024-05-01", ReportCount: 3},
	}
	require.NoError(t, flags.MarkClosed(context.Background(), "2024-05-01"))
	require.NoError(t, flags.MarkSent(context.Background(), []string{"2024-05-01"}))

	groups, err := svc.ListDays(context.Background(), technicianPrincipal("Mario Rossi"), "Mario Rossi")

	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.False(t, groups[0].Closed)
	assert.False(t, groups[0].Sent)
	assert.True(t, groups[1].Closed)
	assert.True(t, groups[1].Sent)
}

func TestGenerateDayIgnoresClosedFlag(t *testing.T) {
	svc, _, flags, composer := newTestService()
	require.NoError(t, flags.MarkClosed(context.Background(), "2024-05-01"))

	files, err := svc.GenerateDay(context.Background(), technicianPrincipal("Mario Rossi"), "Mario Rossi", "2024-05-01")

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, []string{"2024-05-01"}, composer.composed)
}

func TestExportDaysSelectionOrder(t *testing.T) {
	svc, _, _, composer := newTestService()

	files, err := svc.ExportDays(context.Background(), technicianPrincipal("Mario Rossi"), "Mario Rossi",
		[]string{"2024-05-03", "2024-05-01", "2024-05-02"})

	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-03", "2024-05-01", "2024-05-02"}, composer.composed)
	require.Len(t, files, 3)
	assert.Contains(t, files[0].FileName, "2024-05-03")
}

func TestExportDaysAttachesPhotos(t *testing.T) {
	svc, store, _, _ := newTestService()
	store.reports["2024-05-01"] = []model.Report{
		{Date: "2024-05-01", Photos: [][]byte{[]byte("one"), []byte("two")}},
		{Date: "2024-05-01", Photos: [][]byte{[]byte("three")}},
	}

	files, err := svc.ExportDays(context.Background(), technicianPrincipal("Mario Rossi"), "Mario Rossi",
		[]string{"2024-05-01"})

	require.NoError(t, err)
	require.Len(t, files, 4)
	assert.Equal(t, "Foto_Mario_Rossi_2024-05-01_1_1.jpg", files[1].FileName)
	assert.Equal(t, "Foto_Mario_Rossi_2024-05-01_1_2.jpg", files[2].FileName)
	assert.Equal(t, "Foto_Mario_Rossi_2024-05-01_2_1.jpg", files[3].FileName)
	assert.Equal(t, []byte("three"), files[3].Content)
}

func TestExportDaysPartialFailureKeepsEarlierFiles(t *testing.T) {
	svc, _, _, composer := newTestService()
	composer.failDate = "2024-05-02"

	files, err := svc.ExportDays(context.Background(), technicianPrincipal("Mario Rossi"), "Mario Rossi",
		[]string{"2024-05-01", "2024-05-02", "2024-05-03"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "2024-05-02")
	// The first day's document and the partial output of the failed day
	// both survive; the third day is never attempted.
	assert.Len(t, files, 2)
	assert.Equal(t, []string{"2024-05-01", "2024-05-02"}, composer.composed)
}

func TestCloseDayIdempotent(t *testing.T) {
	svc, _, flags, _ := newTestService()

	require.NoError(t, svc.CloseDay(context.Background(), "2024-05-01"))
	require.NoError(t, svc.CloseDay(context.Background(), "2024-05-01"))

	assert.True(t, flags.flags["2024-05-01"].Closed)
}

func TestSentLifecycle(t *testing.T) {
	svc, _, flags, _ := newTestService()

	require.NoError(t, svc.MarkSent(context.Background(), []string{"2024-05-01", "2024-05-02"}))
	assert.Equal(t, []string{"2024-05-01", "2024-05-02"}, flags.sentDates())

	require.NoError(t, svc.MarkUnsent(context.Background(), "2024-05-01"))
	assert.Equal(t, []string{"2024-05-02"}, flags.sentDates())

	// Unsending never disturbs the closed flag.
	require.NoError(t, svc.CloseDay(context.Background(), "2024-05-02"))
	require.NoError(t, svc.MarkUnsent(context.Background(), "2024-05-02"))
	assert.True(t, flags.flags["2024-05-02"].Closed)
}

func TestMarkSentRejectsEmptySelection(t *testing.T) {
	svc, _, _, _ := newTestService()

	err := svc.MarkSent(context.Background(), nil)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMonthlyRecap(t *testing.T) {
	svc, store, _, _ := newTestService()
	store.reports["2024-05-01"] = []model.Report{{Date: "2024-05-01"}}

	file, err := svc.MonthlyRecap(context.Background(), technicianPrincipal("Mario Rossi"), "Mario Rossi", "2024-05")

	require.NoError(t, err)
	assert.Equal(t, "Riepilogo_Mario_Rossi_2024-05.xlsx", file.FileName)
	assert.Equal(t, []byte("xlsx"), file.Content)
}

func TestMonthlyRecapRejectsBadMonth(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.MonthlyRecap(context.Background(), technicianPrincipal("Mario Rossi"), "Mario Rossi", "05-2024")

	assert.ErrorIs(t, err, ErrInvalidInput)
}
