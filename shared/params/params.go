package params

import (
	"github.com/filecoin-project/go-state-types/abi"
)

// Platform wide constants

// /////
// Settlement

// PlatformFeeNum / PlatformFeeDenom is the platform cut on every purchase,
// deducted from the provider payment and retained in custody (0.5%)
const PlatformFeeNum = int64(5)
const PlatformFeeDenom = int64(1000)

// /////
// Listings

// MinRentalDuration is the floor on a listing's minimum rental period,
// roughly one month of epochs
const MinRentalDuration = abi.ChainEpoch(4320)

// /////
// Reputation

// BaselineReputation is the score assigned to a freshly registered provider
const BaselineReputation = uint64(80)

// MaxReputation bounds the reputation score
const MaxReputation = uint64(100)

// ReputationPenaltyDivisor sets the dispute penalty: a client favored
// resolution docks floor(reputation / divisor) points
const ReputationPenaltyDivisor = uint64(10)

// /////
// Disputes

// ClientFavoredRefundNum / RefundDenom is the share of the total payment
// refunded from custody on a client favored owner resolution (75%)
const ClientFavoredRefundNum = int64(75)

// AutoResolveRefundNum / RefundDenom is the share refunded when a client
// filing auto resolves on evidence size (50%)
const AutoResolveRefundNum = int64(50)

// RefundDenom is the denominator for refund shares
const RefundDenom = int64(100)

// AutoResolveEvidenceBytes is the evidence size above which a client filed
// dispute resolves immediately without owner arbitration. The trigger is
// size alone, evidence content is never inspected.
const AutoResolveEvidenceBytes = 128

// /////
// Files

// MaxFileNameBytes bounds the stored file name
const MaxFileNameBytes = 256

// KeyHashLength is the required length of an encryption key hash
const KeyHashLength = 32
