package api

import (
	"context"
	"sync"

	"league/entities"

	"github.com/google/uuid"
)

type ProcessorMock struct {
	mock      sync.Mutex
	Transfers []entities.TransferRequest

	// Err is returned from CreateTransfer when set.
	Err error
}

func (c *ProcessorMock) CreateTransfer(ctx context.Context, request entities.TransferRequest) (string, error) {
	c.mock.Lock()
	defer c.mock.Unlock()

	if c.Err != nil {
		return "", c.Err
	}

	c.Transfers = append(c.Transfers, request)
	return "tr_" + uuid.NewString(), nil
}

func (c *ProcessorMock) CreatedTransfers() []entities.TransferRequest {
	c.mock.Lock()
	defer c.mock.Unlock()

	return append([]entities.TransferRequest{}, c.Transfers...)
}
