package engine

import "github.com/pkg/errors"

var (
	ErrConfigExists     = errors.New("config for token mint already exists")
	ErrConfigNotFound   = errors.New("config for token mint not found")
	ErrProposalExists   = errors.New("proposal already exists")
	ErrProposalNotFound = errors.New("proposal not found")
	ErrVoteExists       = errors.New("vote account already exists")
	ErrVoteNotFound     = errors.New("vote account not found")
)
