package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aromakopi/pos-backend/internal/apperror"
	"github.com/aromakopi/pos-backend/internal/broker"
	"github.com/aromakopi/pos-backend/internal/mailer"
	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/aromakopi/pos-backend/internal/repository"
	"github.com/aromakopi/pos-backend/internal/service"
	"github.com/aromakopi/pos-backend/internal/testutil"
	"github.com/aromakopi/pos-backend/internal/utils"
	"github.com/aromakopi/pos-backend/internal/worker"
	"github.com/stretchr/testify/suite"
)

type KasirServiceSuite struct {
	suite.Suite
	db      *testutil.TestDatabase
	redis   *testutil.TestRedis
	users   *repository.UserRepository
	service *service.KasirService
	ctx     context.Context
}

func (s *KasirServiceSuite) SetupTest() {
	s.db = testutil.SetupTestDatabase(s.T())
	s.redis = testutil.SetupTestRedis(s.T())
	s.users = repository.NewUserRepository(s.db.DB)
	s.service = service.NewKasirService(s.users, broker.NewRedisJobBroker(s.redis.Client), "http://localhost:5173/login")
	s.ctx = context.Background()
}

func (s *KasirServiceSuite) TearDownTest() {
	s.redis.Teardown(s.T())
	s.db.Teardown(s.T())
}

func TestKasirServiceSuite(t *testing.T) {
	suite.Run(t, new(KasirServiceSuite))
}

func (s *KasirServiceSuite) newKasirInput(email string) service.CreateKasirInput {
	in := service.CreateKasirInput{
		Name:       "Budi",
		Email:      email,
		Phone:      "081234567890",
		ShiftStart: "08:00",
		ShiftEnd:   "16:00",
	}
	in.ApplyDefaults()
	return in
}

func (s *KasirServiceSuite) TestCreate_QueuesWelcomeWithWorkingPassword() {
	user, err := s.service.Create(s.ctx, s.newKasirInput("budi@example.com"))
	s.Require().NoError(err)
	s.Equal(models.RoleKasir, user.Role)
	s.Require().NotNil(user.KasirProfile)
	s.Equal("08:00", user.KasirProfile.ShiftStart)

	queued, err := s.redis.Server.List(broker.QueueEmail)
	s.Require().NoError(err)
	s.Require().Len(queued, 1)
	s.Equal(broker.DefaultQueueTTL, s.redis.Server.TTL(broker.QueueEmail), "queued credentials expire")

	var job broker.Job
	s.Require().NoError(json.Unmarshal([]byte(queued[0]), &job))
	s.Equal(worker.JobKasirWelcome, job.Type)

	var welcome mailer.KasirWelcome
	s.Require().NoError(json.Unmarshal(job.Payload, &welcome))
	s.Equal("budi@example.com", welcome.Email)
	s.Equal("http://localhost:5173/login", welcome.LoginURL)
	s.True(utils.VerifyPassword(welcome.Password, user.PasswordHash), "emailed password must open the account")
}

func (s *KasirServiceSuite) TestCreate_SucceedsWithoutBroker() {
	svc := service.NewKasirService(s.users, nil, "")

	user, err := svc.Create(s.ctx, s.newKasirInput("solo@example.com"))

	s.Require().NoError(err)
	s.NotNil(user.KasirProfile)
}

func (s *KasirServiceSuite) TestCreate_SucceedsWhenQueueIsDown() {
	s.redis.Server.Close()

	user, err := s.service.Create(s.ctx, s.newKasirInput("budi@example.com"))

	s.Require().NoError(err)
	stored, err := s.users.GetUserByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.NotNil(stored)
}

func (s *KasirServiceSuite) TestCreate_DuplicateEmail() {
	testutil.CreateCustomer(s.T(), s.db.DB, "Rina", "rina@example.com")

	_, err := s.service.Create(s.ctx, s.newKasirInput("rina@example.com"))

	s.ErrorIs(err, service.ErrEmailTaken)
}

func (s *KasirServiceSuite) TestUpdate() {
	kasir := testutil.CreateKasir(s.T(), s.db.DB, "Budi", "budi@example.com")
	testutil.CreateCustomer(s.T(), s.db.DB, "Rina", "rina@example.com")

	name, shift, active := "Budi S", "10:00", false
	updated, err := s.service.Update(s.ctx, kasir.ID, service.UpdateKasirInput{Name: &name, ShiftStart: &shift, IsActive: &active})
	s.Require().NoError(err)
	s.Equal("Budi S", updated.Name)
	s.Equal("10:00", updated.KasirProfile.ShiftStart)
	s.Equal("16:00", updated.KasirProfile.ShiftEnd)
	s.False(updated.IsActive)

	taken := "rina@example.com"
	_, err = s.service.Update(s.ctx, kasir.ID, service.UpdateKasirInput{Email: &taken})
	s.ErrorIs(err, service.ErrEmailTaken)
}

func (s *KasirServiceSuite) TestGetAndDelete_OnlyKasir() {
	customer := testutil.CreateCustomer(s.T(), s.db.DB, "Rina", "rina@example.com")
	kasir := testutil.CreateKasir(s.T(), s.db.DB, "Budi", "budi@example.com")

	_, err := s.service.Get(s.ctx, customer.ID)
	s.ErrorIs(err, service.ErrKasirNotFound)
	s.ErrorIs(s.service.Delete(s.ctx, customer.ID), service.ErrKasirNotFound)

	s.Require().NoError(s.service.Delete(s.ctx, kasir.ID))
	_, err = s.service.Get(s.ctx, kasir.ID)
	s.ErrorIs(err, service.ErrKasirNotFound)

	list, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *KasirServiceSuite) TestFindMember() {
	customer := testutil.CreateCustomer(s.T(), s.db.DB, "Rina", "rina@example.com")
	memberID := customer.CustomerProfile.MemberID

	view, err := s.service.FindMember(s.ctx, " "+memberID+" ")
	s.Require().NoError(err)
	s.Equal(customer.ID, view.ID)
	s.Equal(10, view.LoyaltyPoints)

	_, err = s.service.FindMember(s.ctx, "AK-0000")
	s.Require().Error(err)
	s.Equal(apperror.CodeNotFound, apperror.From(err).Code)

	_, err = s.service.FindMember(s.ctx, "")
	s.Equal(apperror.CodeValidation, apperror.From(err).Code)

	s.Require().NoError(s.users.UpdateUser(s.ctx, customer.ID, map[string]any{"is_active": false}))
	_, err = s.service.FindMember(s.ctx, memberID)
	s.Equal(apperror.CodeNotFound, apperror.From(err).Code)
}
