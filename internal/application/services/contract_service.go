package services

import (
	"context"
	"sync"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/repositories"
	apperrors "github.com/Yong0-sa/weconnect-sub000/pkg/errors"
)

// ContractService handles farm plot applications from both sides
type ContractService struct {
	repo repositories.ContractRepository

	mu       sync.RWMutex
	mine     []entities.FarmContract
	received []entities.FarmContract
}

// NewContractService creates a contract service
func NewContractService(repo repositories.ContractRepository) *ContractService {
	return &ContractService{repo: repo}
}

// Apply applies for a plot on farmID
func (s *ContractService) Apply(ctx context.Context, farmID int64, message string) (*entities.FarmContract, error) {
	if farmID <= 0 {
		return nil, apperrors.NewValidationError("농장을 선택하세요.")
	}
	contract, err := s.repo.ApplyContract(ctx, entities.ContractApplication{FarmID: farmID, Message: message})
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.mine = append([]entities.FarmContract{*contract}, s.mine...)
	s.mu.Unlock()
	return contract, nil
}

// Mine loads the viewer's own applications
func (s *ContractService) Mine(ctx context.Context) ([]entities.FarmContract, error) {
	contracts, err := s.repo.ListMyContracts(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.mine = contracts
	s.mu.Unlock()
	return append([]entities.FarmContract(nil), contracts...), nil
}

// Received loads the applications made to the viewer's farms
func (s *ContractService) Received(ctx context.Context) ([]entities.FarmContract, error) {
	contracts, err := s.repo.ListOwnerContracts(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.received = contracts
	s.mu.Unlock()
	return append([]entities.FarmContract(nil), contracts...), nil
}

// Approve approves an application and records the server's answer locally
func (s *ContractService) Approve(ctx context.Context, contractID int64) (*entities.FarmContract, error) {
	contract, err := s.repo.ApproveContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	s.replaceReceived(contractID, *contract)
	return contract, nil
}

// Reject rejects an application and records the server's answer locally
func (s *ContractService) Reject(ctx context.Context, contractID int64) (*entities.FarmContract, error) {
	contract, err := s.repo.RejectContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	s.replaceReceived(contractID, *contract)
	return contract, nil
}

// ReceivedSnapshot returns the last loaded received list
func (s *ContractService) ReceivedSnapshot() []entities.FarmContract {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.FarmContract(nil), s.received...)
}

func (s *ContractService) replaceReceived(contractID int64, contract entities.FarmContract) {
	if contract.ContractID == 0 {
		contract.ContractID = contractID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.received {
		if s.received[i].ContractID == contractID {
			s.received[i] = contract
			return
		}
	}
}
