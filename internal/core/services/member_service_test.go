package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/SscSPs/dues_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/dues_ledger/internal/core/ports/services"
	"github.com/SscSPs/dues_ledger/internal/core/services"
	"github.com/SscSPs/dues_ledger/internal/dto"
	"github.com/SscSPs/dues_ledger/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MemberServiceTestSuite struct {
	suite.Suite
	mockRepo *MockMemberRepository
	service  portssvc.MemberSvcFacade
	ctx      context.Context
}

func (suite *MemberServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockMemberRepository)
	suite.service = services.NewMemberService(suite.mockRepo)
	suite.ctx = context.Background()
}

func TestMemberServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MemberServiceTestSuite))
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func (suite *MemberServiceTestSuite) TestCreateMember_Success() {
	req := dto.CreateMemberRequest{MemberID: " 12345678900 ", Name: " Ana ", Password: strPtr("secret1")}

	suite.mockRepo.On("SaveMember", suite.ctx, mock.MatchedBy(func(m domain.Member) bool {
		return m.MemberID == "12345678900" && m.Name == "Ana" &&
			m.CreatedBy == "admin" && utils.CheckPasswordHash("secret1", m.PasswordHash)
	})).Return(nil).Once()

	member, err := suite.service.CreateMember(suite.ctx, req, "admin")

	suite.Require().NoError(err)
	suite.Equal("12345678900", member.MemberID)
	suite.True(member.HasPassword())
	suite.False(member.CreatedAt.IsZero())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MemberServiceTestSuite) TestCreateMember_WithoutPassword() {
	suite.mockRepo.On("SaveMember", suite.ctx, mock.AnythingOfType("domain.Member")).Return(nil).Once()

	member, err := suite.service.CreateMember(suite.ctx, dto.CreateMemberRequest{MemberID: "1", Name: "Bruno"}, "admin")

	suite.Require().NoError(err)
	suite.False(member.HasPassword())
}

func (suite *MemberServiceTestSuite) TestCreateMember_BlankFields() {
	_, err := suite.service.CreateMember(suite.ctx, dto.CreateMemberRequest{MemberID: "  ", Name: "Ana"}, "admin")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveMember", mock.Anything, mock.Anything)
}

func (suite *MemberServiceTestSuite) TestCreateMember_ShortPassword() {
	_, err := suite.service.CreateMember(suite.ctx,
		dto.CreateMemberRequest{MemberID: "1", Name: "Ana", Password: strPtr("abc")}, "admin")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveMember", mock.Anything, mock.Anything)
}

func (suite *MemberServiceTestSuite) TestCreateMember_Duplicate() {
	suite.mockRepo.On("SaveMember", suite.ctx, mock.AnythingOfType("domain.Member")).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateMember(suite.ctx, dto.CreateMemberRequest{MemberID: "1", Name: "Ana"}, "admin")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *MemberServiceTestSuite) TestGetMemberByID_NotFound() {
	suite.mockRepo.On("FindMemberByID", suite.ctx, "404").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetMemberByID(suite.ctx, "404")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *MemberServiceTestSuite) TestListMembers_NormalizesLimit() {
	members := []domain.Member{{MemberID: "1", Name: "Ana"}}
	suite.mockRepo.On("ListMembers", suite.ctx, 20, 0).Return(members, nil).Once()

	result, err := suite.service.ListMembers(suite.ctx, 0, -5)

	suite.Require().NoError(err)
	suite.Len(result, 1)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MemberServiceTestSuite) TestUpdateMember() {
	existing := &domain.Member{MemberID: "1", Name: "Ana"}
	suite.mockRepo.On("FindMemberByID", suite.ctx, "1").Return(existing, nil).Once()
	suite.mockRepo.On("UpdateMember", suite.ctx, mock.MatchedBy(func(m domain.Member) bool {
		return m.Name == "Ana Maria" && m.IsAdmin && m.LastUpdatedBy == "admin" &&
			utils.CheckPasswordHash("newpass", m.PasswordHash)
	})).Return(nil).Once()

	updated, err := suite.service.UpdateMember(suite.ctx, "1", dto.UpdateMemberRequest{
		Name:     strPtr("Ana Maria"),
		Password: strPtr("newpass"),
		IsAdmin:  boolPtr(true),
	}, "admin")

	suite.Require().NoError(err)
	suite.Equal("Ana Maria", updated.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MemberServiceTestSuite) TestUpdateMember_CannotRevokeOwnAdmin() {
	suite.mockRepo.On("FindMemberByID", suite.ctx, "admin").
		Return(&domain.Member{MemberID: "admin", Name: "Root", IsAdmin: true}, nil).Once()

	_, err := suite.service.UpdateMember(suite.ctx, "admin", dto.UpdateMemberRequest{IsAdmin: boolPtr(false)}, "admin")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateMember", mock.Anything, mock.Anything)
}

func (suite *MemberServiceTestSuite) TestDeleteMember() {
	suite.mockRepo.On("DeleteMember", suite.ctx, "1").Return(true, nil).Once()
	suite.mockRepo.On("DeleteMember", suite.ctx, "2").Return(false, nil).Once()

	suite.NoError(suite.service.DeleteMember(suite.ctx, "1", "admin"))
	suite.ErrorIs(suite.service.DeleteMember(suite.ctx, "2", "admin"), apperrors.ErrNotFound)
	suite.ErrorIs(suite.service.DeleteMember(suite.ctx, "admin", "admin"), apperrors.ErrValidation)
}

func (suite *MemberServiceTestSuite) TestAuthenticateMember() {
	hash, err := utils.HashPassword("secret1")
	suite.Require().NoError(err)
	suite.mockRepo.On("FindMemberByID", suite.ctx, "1").
		Return(&domain.Member{MemberID: "1", PasswordHash: hash}, nil)
	suite.mockRepo.On("FindMemberByID", suite.ctx, "2").
		Return(&domain.Member{MemberID: "2"}, nil)
	suite.mockRepo.On("FindMemberByID", suite.ctx, "3").Return(nil, apperrors.ErrNotFound)
	suite.mockRepo.On("FindMemberByID", suite.ctx, "4").Return(nil, errors.New("db down"))

	member, err := suite.service.AuthenticateMember(suite.ctx, "1", "secret1")
	suite.Require().NoError(err)
	suite.Equal("1", member.MemberID)

	_, err = suite.service.AuthenticateMember(suite.ctx, "1", "wrong")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)

	_, err = suite.service.AuthenticateMember(suite.ctx, "2", "anything")
	suite.ErrorIs(err, apperrors.ErrUnauthorized, "member without password cannot log in")

	_, err = suite.service.AuthenticateMember(suite.ctx, "3", "secret1")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)

	_, err = suite.service.AuthenticateMember(suite.ctx, "4", "secret1")
	suite.Error(err)
	suite.NotErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *MemberServiceTestSuite) TestSetInitialPassword_ThenLogin() {
	stored := &domain.Member{MemberID: "1", Name: "Bruno"}
	suite.mockRepo.On("FindMemberByID", suite.ctx, "1").Return(stored, nil).Once()
	suite.mockRepo.On("UpdateMember", suite.ctx, mock.MatchedBy(func(m domain.Member) bool {
		return m.LastUpdatedBy == "1" && utils.CheckPasswordHash("firstpass", m.PasswordHash)
	})).Run(func(args mock.Arguments) {
		updated := args.Get(1).(domain.Member)
		stored = &updated
	}).Return(nil).Once()

	member, err := suite.service.SetInitialPassword(suite.ctx, " 1 ", "firstpass")

	suite.Require().NoError(err)
	suite.True(member.HasPassword())

	suite.mockRepo.On("FindMemberByID", suite.ctx, "1").Return(stored, nil).Once()
	loggedIn, err := suite.service.AuthenticateMember(suite.ctx, "1", "firstpass")
	suite.Require().NoError(err)
	suite.Equal("1", loggedIn.MemberID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MemberServiceTestSuite) TestSetInitialPassword_AlreadySet() {
	hash, err := utils.HashPassword("secret1")
	suite.Require().NoError(err)
	suite.mockRepo.On("FindMemberByID", suite.ctx, "1").
		Return(&domain.Member{MemberID: "1", PasswordHash: hash}, nil).Once()

	_, err = suite.service.SetInitialPassword(suite.ctx, "1", "takeover")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateMember", mock.Anything, mock.Anything)
}

func (suite *MemberServiceTestSuite) TestSetInitialPassword_Rejected() {
	suite.mockRepo.On("FindMemberByID", suite.ctx, "404").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.SetInitialPassword(suite.ctx, "1", "abc")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.SetInitialPassword(suite.ctx, "404", "firstpass")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)

	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateMember", mock.Anything, mock.Anything)
}
