package types

import "strings"

// Medium is the second half of a transaction kind.
type Medium string

const (
	MediumSMS  Medium = "sms"
	MediumCall Medium = "call"
)

// Channel is the first half of a transaction kind. The switch only ever
// submits local/outside; globe is derived from the destination prefix.
type Channel string

const (
	ChannelLocal   Channel = "local"
	ChannelGlobe   Channel = "globe"
	ChannelOutside Channel = "outside"
)

// TransactionKind identifies a billable channel+medium combination as
// named by the dialplan, e.g. "local_call".
type TransactionKind string

const (
	KindLocalSMS    TransactionKind = "local_sms"
	KindLocalCall   TransactionKind = "local_call"
	KindGlobeSMS    TransactionKind = "globe_sms"
	KindGlobeCall   TransactionKind = "globe_call"
	KindOutsideSMS  TransactionKind = "outside_sms"
	KindOutsideCall TransactionKind = "outside_call"
)

var allKinds = []TransactionKind{
	KindLocalSMS, KindLocalCall,
	KindGlobeSMS, KindGlobeCall,
	KindOutsideSMS, KindOutsideCall,
}

func AllTransactionKinds() []TransactionKind {
	out := make([]TransactionKind, len(allKinds))
	copy(out, allKinds)
	return out
}

func ParseTransactionKind(s string) (TransactionKind, bool) {
	for _, k := range allKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

func (k TransactionKind) Valid() bool {
	_, ok := ParseTransactionKind(string(k))
	return ok
}

func (k TransactionKind) Channel() Channel {
	parts := strings.SplitN(string(k), "_", 2)
	return Channel(parts[0])
}

func (k TransactionKind) Medium() Medium {
	parts := strings.SplitN(string(k), "_", 2)
	if len(parts) != 2 {
		return ""
	}
	return Medium(parts[1])
}

// WithChannel swaps the channel word, keeping the medium. Used when a
// destination turns out to belong to an external operator.
func (k TransactionKind) WithChannel(c Channel) TransactionKind {
	m := k.Medium()
	if m == "" {
		return k
	}
	return TransactionKind(string(c) + "_" + string(m))
}
