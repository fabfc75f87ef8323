package chaintracker

import (
	"github.com/kaspanet/chaintracker/domain/chaintracker/chainerrors"
	"github.com/kaspanet/chaintracker/domain/chaintracker/datastructures/anchorstore"
	"github.com/kaspanet/chaintracker/domain/chaintracker/datastructures/forkforest"
	"github.com/kaspanet/chaintracker/domain/chaintracker/datastructures/indextable"
	"github.com/kaspanet/chaintracker/domain/chaintracker/datastructures/lockedchainstore"
	"github.com/kaspanet/chaintracker/domain/chaintracker/datastructures/weightstore"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
	"github.com/kaspanet/chaintracker/domain/chaintracker/processes/chainview"
	"github.com/kaspanet/chaintracker/domain/chaintracker/processes/changebroadcaster"
	"github.com/kaspanet/chaintracker/domain/chaintracker/processes/forkselector"
	"github.com/kaspanet/chaintracker/domain/chaintracker/processes/lockmanager"
	"github.com/kaspanet/chaintracker/domain/chaintracker/processes/reorgdifferencer"
	"github.com/pkg/errors"
)

// Factory instantiates new ChainTrackers
type Factory interface {
	NewChainTracker(config *Config) (ChainTracker, error)
}

type factory struct{}

// NewFactory creates a new ChainTracker factory
func NewFactory() Factory {
	return &factory{}
}

// New instantiates a new ChainTracker with the default factory
func New(config *Config) (ChainTracker, error) {
	return NewFactory().NewChainTracker(config)
}

// NewChainTracker instantiates a new ChainTracker
func (f *factory) NewChainTracker(config *Config) (ChainTracker, error) {
	if config == nil {
		config = &Config{}
	}
	baseAnchor := config.Anchor
	if baseAnchor == nil {
		baseAnchor = &externalapi.ZeroHash
	}

	err := validateLockedChain(baseAnchor, config.LockedChain)
	if err != nil {
		return nil, err
	}

	// Data Structures
	weightStore := weightstore.New()
	forkForest := forkforest.New()
	lockedChainStore := lockedchainstore.New()
	indexTable := indextable.New()

	anchor := baseAnchor
	for _, record := range config.LockedChain {
		weightStore.Stage(record.Hash, record.Weight)
		lockedChainStore.Append(record)
		anchor = record.Hash
	}
	anchorStore := anchorstore.New(anchor)

	// Processes
	forkSelector := forkselector.New(
		forkForest,
		weightStore)
	reorgDifferencer := reorgdifferencer.New(
		forkForest)
	lockManager := lockmanager.New(
		forkForest,
		forkSelector,
		weightStore,
		lockedChainStore,
		anchorStore,
		config.FinalizationHook)
	chainView := chainview.New(
		lockedChainStore,
		anchorStore,
		indexTable,
		weightStore,
		forkSelector)
	changeBroadcaster := changebroadcaster.New()

	if len(config.LockedChain) > 0 {
		log.Infof("Restored %d locked blocks, anchor is %s", len(config.LockedChain), anchor)
	}

	return &chainTracker{
		ChainView: chainView,

		baseAnchor:    baseAnchor.Clone(),
		selectedChain: []*externalapi.DomainHash{},

		weightStore:      weightStore,
		forkForest:       forkForest,
		lockedChainStore: lockedChainStore,
		anchorStore:      anchorStore,
		indexTable:       indexTable,

		forkSelector:      forkSelector,
		reorgDifferencer:  reorgDifferencer,
		lockManager:       lockManager,
		changeBroadcaster: changeBroadcaster,
	}, nil
}

func validateLockedChain(baseAnchor *externalapi.DomainHash, lockedChain []*externalapi.BlockRecord) error {
	seen := make(map[externalapi.DomainHash]struct{}, len(lockedChain)+1)
	seen[*baseAnchor] = struct{}{}

	parentHash := baseAnchor
	for i, record := range lockedChain {
		if record == nil || record.Hash == nil || record.ParentHash == nil {
			return errors.Wrapf(chainerrors.ErrInvalidLockedChain, "locked record %d is incomplete", i)
		}
		if !record.ParentHash.Equal(parentHash) {
			return errors.Wrapf(chainerrors.ErrInvalidLockedChain,
				"locked record %d points to %s instead of %s", i, record.ParentHash, parentHash)
		}
		if _, ok := seen[*record.Hash]; ok {
			return errors.Wrapf(chainerrors.ErrInvalidLockedChain,
				"locked record %d repeats hash %s", i, record.Hash)
		}
		seen[*record.Hash] = struct{}{}
		parentHash = record.Hash
	}
	return nil
}
