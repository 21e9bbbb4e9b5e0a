package memory

import (
	"context"
	"slices"

	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/core/domain/model/porter"
)

type porterRepository struct {
	uow *UnitOfWork
}

func (r porterRepository) Add(_ context.Context, p porter.Porter) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}
	work, err := r.uow.active()
	if err != nil {
		return false, err
	}

	if indexByIdentity(work.porters, p.Identity()) >= 0 {
		return false, nil
	}
	work.porters = append(work.porters, p)
	return true, nil
}

func (r porterRepository) Remove(_ context.Context, identity kernel.Identity) (bool, error) {
	work, err := r.uow.active()
	if err != nil {
		return false, err
	}

	i := indexByIdentity(work.porters, identity)
	if i < 0 {
		return false, nil
	}
	work.porters = append(work.porters[:i], work.porters[i+1:]...)
	return true, nil
}

func (r porterRepository) Contains(_ context.Context, identity kernel.Identity) (bool, error) {
	work, err := r.uow.active()
	if err != nil {
		return false, err
	}
	return indexByIdentity(work.porters, identity) >= 0, nil
}

func (r porterRepository) GetAll(_ context.Context) ([]porter.Porter, error) {
	work, err := r.uow.active()
	if err != nil {
		return nil, err
	}
	return slices.Clone(work.porters), nil
}

func indexByIdentity(porters []porter.Porter, identity kernel.Identity) int {
	return slices.IndexFunc(porters, func(p porter.Porter) bool {
		return p.Identity().IsEqual(identity)
	})
}
