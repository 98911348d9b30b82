package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Yong0-sa/weconnect-sub000/internal/application/services"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	apperrors "github.com/Yong0-sa/weconnect-sub000/pkg/errors"
)

func TestContractService_ApproveUpdatesReceived(t *testing.T) {
	repo := new(MockContractRepository)
	repo.On("ListOwnerContracts", mock.Anything).Return([]entities.FarmContract{
		{ContractID: 1, FarmID: 100, Status: entities.ContractStatusPending},
		{ContractID: 2, FarmID: 100, Status: entities.ContractStatusPending},
	}, nil)
	repo.On("ApproveContract", mock.Anything, int64(1)).Return(&entities.FarmContract{ContractID: 1, FarmID: 100, Status: entities.ContractStatusApproved}, nil)
	repo.On("RejectContract", mock.Anything, int64(2)).Return(&entities.FarmContract{Status: entities.ContractStatusRejected}, nil)

	svc := services.NewContractService(repo)
	_, err := svc.Received(context.Background())
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), 1)
	require.NoError(t, err)
	_, err = svc.Reject(context.Background(), 2)
	require.NoError(t, err)

	received := svc.ReceivedSnapshot()
	assert.Equal(t, entities.ContractStatusApproved, received[0].Status)
	assert.Equal(t, entities.ContractStatusRejected, received[1].Status)
	assert.Equal(t, int64(2), received[1].ContractID)
}

func TestContractService_Apply(t *testing.T) {
	repo := new(MockContractRepository)
	repo.On("ApplyContract", mock.Anything, entities.ContractApplication{FarmID: 100, Message: "주말 텃밭 희망"}).
		Return(&entities.FarmContract{ContractID: 9, FarmID: 100, Status: entities.ContractStatusPending}, nil)

	svc := services.NewContractService(repo)
	contract, err := svc.Apply(context.Background(), 100, "주말 텃밭 희망")
	require.NoError(t, err)
	assert.Equal(t, entities.ContractStatusPending, contract.Status)

	_, err = svc.Apply(context.Background(), 0, "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
