package service_test

import (
	"context"
	"testing"

	"github.com/aromakopi/pos-backend/internal/apperror"
	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/aromakopi/pos-backend/internal/repository"
	"github.com/aromakopi/pos-backend/internal/service"
	"github.com/aromakopi/pos-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CatalogServiceSuite struct {
	suite.Suite
	db         *testutil.TestDatabase
	categories *service.CategoryService
	menus      *service.MenuService
	tables     *service.TableService
	rewards    *service.RewardService
	admin      *models.User
	ctx        context.Context
}

func (s *CatalogServiceSuite) SetupTest() {
	s.db = testutil.SetupTestDatabase(s.T())
	categoryRepo := repository.NewCategoryRepository(s.db.DB)
	s.categories = service.NewCategoryService(categoryRepo)
	s.menus = service.NewMenuService(repository.NewMenuRepository(s.db.DB), categoryRepo)
	s.tables = service.NewTableService(repository.NewTableRepository(s.db.DB))
	s.rewards = service.NewRewardService(repository.NewRewardRepository(s.db.DB))
	s.admin = testutil.CreateAdmin(s.T(), s.db.DB, "Admin", "admin@example.com")
	s.ctx = context.Background()
}

func (s *CatalogServiceSuite) TearDownTest() {
	s.db.Teardown(s.T())
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceSuite))
}

func ptr[T any](v T) *T { return &v }

func (s *CatalogServiceSuite) TestCategory_Lifecycle() {
	in := service.CreateCategoryInput{Name: "Coffee"}
	in.ApplyDefaults()
	category, err := s.categories.Create(s.ctx, s.admin.ID, in)
	s.Require().NoError(err)
	s.True(category.IsActive)

	_, err = s.categories.Create(s.ctx, s.admin.ID, in)
	s.ErrorIs(err, service.ErrCategoryExists)

	updated, err := s.categories.Update(s.ctx, category.ID, service.UpdateCategoryInput{IsActive: ptr(false)})
	s.Require().NoError(err)
	s.False(updated.IsActive)

	active, err := s.categories.List(s.ctx, true)
	s.Require().NoError(err)
	s.Empty(active)
	all, err := s.categories.List(s.ctx, false)
	s.Require().NoError(err)
	s.Len(all, 1)

	s.Require().NoError(s.categories.Delete(s.ctx, category.ID))
	_, err = s.categories.Get(s.ctx, category.ID)
	s.ErrorIs(err, service.ErrCategoryNotFound)
}

func (s *CatalogServiceSuite) TestCategory_DeleteRefusedWhileUsed() {
	category := testutil.CreateCategory(s.T(), s.db.DB, "Food")
	testutil.CreateMenu(s.T(), s.db.DB, "Nasi Goreng", category)

	s.ErrorIs(s.categories.Delete(s.ctx, category.ID), service.ErrCategoryInUse)
}

func (s *CatalogServiceSuite) TestMenu_ProfitFollowsPrices() {
	category := testutil.CreateCategory(s.T(), s.db.DB, "Coffee")
	in := service.CreateMenuInput{
		Name:              "Kopi Susu",
		CategoryID:        category.ID,
		Stock:             20,
		ProductionCapital: decimal.RequireFromString("7500"),
		SellingPrice:      decimal.RequireFromString("18000.50"),
	}
	in.ApplyDefaults()

	menu, err := s.menus.Create(s.ctx, in)
	s.Require().NoError(err)
	s.Equal("10500.5", menu.Profit.String())
	s.Equal(category.ID, menu.Category.ID)

	updated, err := s.menus.Update(s.ctx, menu.ID, service.UpdateMenuInput{SellingPrice: ptr(decimal.NewFromInt(20000))})
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(12500).Equal(updated.Profit), "profit %s", updated.Profit)
	s.True(decimal.NewFromInt(7500).Equal(updated.ProductionCapital))
}

func (s *CatalogServiceSuite) TestMenu_RequiresExistingCategory() {
	in := service.CreateMenuInput{
		Name:              "Ghost",
		CategoryID:        uuid.New(),
		Stock:             1,
		ProductionCapital: decimal.NewFromInt(1),
		SellingPrice:      decimal.NewFromInt(2),
	}
	in.ApplyDefaults()

	_, err := s.menus.Create(s.ctx, in)

	s.Equal(apperror.CodeValidation, apperror.From(err).Code)
}

func (s *CatalogServiceSuite) TestMenu_DeleteAndNotFound() {
	menu := testutil.CreateMenu(s.T(), s.db.DB, "Teh", testutil.CreateCategory(s.T(), s.db.DB, "Tea"))

	s.Require().NoError(s.menus.Delete(s.ctx, menu.ID))
	s.ErrorIs(s.menus.Delete(s.ctx, menu.ID), service.ErrMenuNotFound)
}

func (s *CatalogServiceSuite) TestTable_GuestsWithinCapacity() {
	in := service.CreateTableInput{Number: 1, Capacity: 4}
	in.ApplyDefaults()
	table, err := s.tables.Create(s.ctx, in)
	s.Require().NoError(err)
	s.Equal(models.TableAvailable, table.Status)
	s.Equal(models.LocationIndoor, table.Location)

	_, err = s.tables.Create(s.ctx, in)
	s.ErrorIs(err, service.ErrTableExists)

	_, err = s.tables.Update(s.ctx, table.ID, service.UpdateTableInput{CurrentGuests: ptr(5)})
	s.ErrorIs(err, service.ErrGuestsOverCap)

	updated, err := s.tables.Update(s.ctx, table.ID, service.UpdateTableInput{Capacity: ptr(6), CurrentGuests: ptr(5)})
	s.Require().NoError(err)
	s.Equal(5, updated.CurrentGuests)

	_, err = s.tables.Update(s.ctx, table.ID, service.UpdateTableInput{Capacity: ptr(2)})
	s.ErrorIs(err, service.ErrGuestsOverCap)
}

func (s *CatalogServiceSuite) TestTable_NumberStaysUnique() {
	for _, n := range []int{1, 2} {
		in := service.CreateTableInput{Number: n, Capacity: 2}
		in.ApplyDefaults()
		_, err := s.tables.Create(s.ctx, in)
		s.Require().NoError(err)
	}
	tables, err := s.tables.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(tables, 2)

	second := tables[0]
	if second.Number != 2 {
		second = tables[1]
	}
	_, err = s.tables.Update(s.ctx, second.ID, service.UpdateTableInput{Number: ptr(1)})
	s.ErrorIs(err, service.ErrTableExists)
}

func (s *CatalogServiceSuite) TestReward_TypeSwitchClearsFields() {
	in := service.CreateRewardInput{Title: "Free Coffee", Type: models.RewardTypeReward, Points: ptr(100), Code: ptr("IGNORED")}
	in.ApplyDefaults()
	reward, err := s.rewards.Create(s.ctx, s.admin.ID, in)
	s.Require().NoError(err)
	s.Equal(100, *reward.Points)
	s.Nil(reward.Code)

	voucher := models.RewardTypeVoucher
	updated, err := s.rewards.Update(s.ctx, reward.ID, service.UpdateRewardInput{Type: &voucher, Code: ptr("HEMAT10")})
	s.Require().NoError(err)
	s.Equal(models.RewardTypeVoucher, updated.Type)
	s.Require().NotNil(updated.Code)
	s.Equal("HEMAT10", *updated.Code)
	s.Nil(updated.Points)

	_, err = s.rewards.Create(s.ctx, s.admin.ID, in)
	s.ErrorIs(err, service.ErrRewardExists)
}

func TestRewardInput_Shape(t *testing.T) {
	reward := service.CreateRewardInput{Title: "Free", Type: models.RewardTypeReward}
	assert.Equal(t, []string{"points is required for type REWARD"}, reward.CheckFields())

	voucher := service.CreateRewardInput{Title: "Disc", Type: models.RewardTypeVoucher, Code: ptr(" hemat ")}
	voucher.Normalize()
	assert.Equal(t, "HEMAT", *voucher.Code)
	assert.Empty(t, voucher.CheckFields())

	assert.Equal(t, []string{"at least one field must be provided"}, (&service.UpdateRewardInput{}).CheckFields())
}

func TestTableInput_GuestsOverCapacity(t *testing.T) {
	in := service.CreateTableInput{Number: 3, Capacity: 2, CurrentGuests: 3}
	assert.Equal(t, []string{"currentGuests cannot exceed capacity"}, in.CheckFields())
}
