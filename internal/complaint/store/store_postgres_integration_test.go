//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"careline/internal/complaint/models"
	"careline/internal/patient"
	"careline/pkg/platform/sentinel"
	"careline/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	ctx      context.Context
	pg       *containers.PostgresContainer
	store    *PostgresStore
	patients *patient.PostgresStore
	tx       *SQLTxRunner
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.NewPostgresContainer(s.T(), containers.CoreSchema, containers.OptionalSchema)
	s.store = NewPostgres(s.pg.DB)
	s.patients = patient.NewPostgres(s.pg.DB)
	s.tx = NewSQLTxRunner(s.pg.DB)

	_, err := s.pg.DB.ExecContext(s.ctx, `
		INSERT INTO departments (department_name) VALUES ('Emergency'), ('Radiology');
		INSERT INTO complaint_types (type_name) VALUES ('Waiting Time'), ('Staff Conduct');
		INSERT INTO roles (role_name) VALUES ('Administrator'), ('Staff');
		INSERT INTO employees (username, full_name, password_hash, role_id)
		VALUES ('admin', 'Admin User', 'x', 1), ('noura', 'Noura Al-Qahtani', 'x', 2);
	`)
	require.NoError(s.T(), err)
}

func (s *PostgresStoreSuite) SetupTest() {
	require.NoError(s.T(), s.pg.TruncateAll(s.ctx))
}

func (s *PostgresStoreSuite) createComplaint(submittedBy int64, nationalID, details string) *models.Complaint {
	s.T().Helper()
	p, err := s.patients.CreateIfAbsent(s.ctx, nationalID, patient.Demographics{
		FullName: "Sara Ahmed", ContactNumber: "0501234567", Gender: "F",
	})
	require.NoError(s.T(), err)

	c, err := s.store.Create(s.ctx, &models.Complaint{
		PatientID:       p.ID,
		DepartmentID:    1,
		ComplaintTypeID: 1,
		SubmittedBy:     submittedBy,
		Details:         details,
		CurrentStatus:   models.StatusNew,
		Priority:        models.PriorityMedium,
		ComplaintDate:   time.Now(),
		VisitDate:       time.Now().Add(-24 * time.Hour),
	})
	require.NoError(s.T(), err)
	return c
}

func (s *PostgresStoreSuite) TestCreateAndStatus() {
	c := s.createComplaint(2, "1234567890", "waited four hours")
	assert.NotZero(s.T(), c.ID)

	status, err := s.store.GetStatus(s.ctx, c.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.StatusNew, status)

	_, err = s.store.GetStatus(s.ctx, 9999)
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdateStatusWithResolution() {
	c := s.createComplaint(2, "1234567890", "waited four hours")

	details := "queue triage added"
	now := time.Now()
	require.NoError(s.T(), s.store.UpdateStatus(s.ctx, c.ID, models.StatusResolved, &details, &now))

	d, err := s.store.GetDetail(s.ctx, c.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.StatusResolved, d.CurrentStatus)
	require.NotNil(s.T(), d.ResolutionDetails)
	assert.Equal(s.T(), details, *d.ResolutionDetails)

	// A later move without resolution fields keeps the earlier ones.
	require.NoError(s.T(), s.store.UpdateStatus(s.ctx, c.ID, models.StatusRejected, nil, nil))
	d, err = s.store.GetDetail(s.ctx, c.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), d.ResolutionDetails)
	assert.Equal(s.T(), details, *d.ResolutionDetails)
}

func (s *PostgresStoreSuite) TestListScopes() {
	s.createComplaint(2, "1111111111", "first")
	s.createComplaint(3, "2222222222", "second")

	all, err := s.store.List(s.ctx, models.AllScope(), models.Filter{})
	require.NoError(s.T(), err)
	assert.Len(s.T(), all, 2)

	own, err := s.store.List(s.ctx, models.OwnScope(2), models.Filter{})
	require.NoError(s.T(), err)
	require.Len(s.T(), own, 1)
	assert.Equal(s.T(), "first", own[0].Details)

	none, err := s.store.List(s.ctx, models.NoneScope(), models.Filter{})
	require.NoError(s.T(), err)
	assert.NotNil(s.T(), none)
	assert.Empty(s.T(), none)
}

func (s *PostgresStoreSuite) TestListFilters() {
	s.createComplaint(2, "1111111111", "first")

	byStatus, err := s.store.List(s.ctx, models.AllScope(), models.Filter{Status: "New"})
	require.NoError(s.T(), err)
	assert.Len(s.T(), byStatus, 1)

	byDept, err := s.store.List(s.ctx, models.AllScope(), models.Filter{Department: "Emerg"})
	require.NoError(s.T(), err)
	assert.Len(s.T(), byDept, 1)

	noMatch, err := s.store.List(s.ctx, models.AllScope(), models.Filter{Search: "zzz"})
	require.NoError(s.T(), err)
	assert.Empty(s.T(), noMatch)

	byNID, err := s.store.List(s.ctx, models.AllScope(), models.Filter{Search: "1111111111"})
	require.NoError(s.T(), err)
	assert.Len(s.T(), byNID, 1)
}

func (s *PostgresStoreSuite) TestListByPatientAndCount() {
	c := s.createComplaint(2, "1234567890", "waited four hours")
	s.createComplaint(2, "1234567890", "second visit, same wait")

	items, err := s.store.ListByPatient(s.ctx, "1234567890")
	require.NoError(s.T(), err)
	assert.Len(s.T(), items, 2)

	count, err := s.store.CountByPatient(s.ctx, c.PatientID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(2), count)
}

func (s *PostgresStoreSuite) TestTxRollback() {
	p, err := s.patients.CreateIfAbsent(s.ctx, "1234567890", patient.Demographics{FullName: "Sara Ahmed"})
	require.NoError(s.T(), err)

	sentinelErr := assert.AnError
	err = s.tx.RunInTx(s.ctx, func(ctx context.Context) error {
		_, err := s.store.Create(ctx, &models.Complaint{
			PatientID:       p.ID,
			DepartmentID:    1,
			ComplaintTypeID: 1,
			SubmittedBy:     2,
			Details:         "rolled back",
			CurrentStatus:   models.StatusNew,
			Priority:        models.PriorityMedium,
			ComplaintDate:   time.Now(),
			VisitDate:       time.Now(),
		})
		require.NoError(s.T(), err)
		return sentinelErr
	})
	assert.ErrorIs(s.T(), err, sentinelErr)

	all, err := s.store.List(s.ctx, models.AllScope(), models.Filter{})
	require.NoError(s.T(), err)
	assert.Empty(s.T(), all)
}
