package types

import "strings"

// PromoType tags a promo's pricing regime. The single-letter values are
// part of the wire contract with the dialplan ("U_local_call" etc).
type PromoType string

const (
	PromoTypeUnlimited     PromoType = "U"
	PromoTypeBulk          PromoType = "B"
	PromoTypeDiscounted    PromoType = "D"
	PromoTypeGroupDiscount PromoType = "G"
)

// PromoTypePriority is the classification order: the first type with a
// qualifying subscription wins.
var PromoTypePriority = []PromoType{
	PromoTypeUnlimited,
	PromoTypeBulk,
	PromoTypeDiscounted,
	PromoTypeGroupDiscount,
}

func (p PromoType) Valid() bool {
	switch p {
	case PromoTypeUnlimited, PromoTypeBulk, PromoTypeDiscounted, PromoTypeGroupDiscount:
		return true
	}
	return false
}

// EffectiveTag is the classifier output: a transaction kind, optionally
// prefixed with the promo type that will charge it. A zero PromoType
// means regular rates apply.
type EffectiveTag struct {
	PromoType PromoType
	Kind      TransactionKind
}

func (t EffectiveTag) String() string {
	if t.PromoType == "" {
		return string(t.Kind)
	}
	return string(t.PromoType) + "_" + string(t.Kind)
}

func (t EffectiveTag) Promo() bool {
	return t.PromoType != ""
}

// ParseEffectiveTag splits "U_local_call" style tags. Anything without a
// recognized single-letter prefix is treated as a bare transaction kind,
// matching the dialplan contract where "local_call" and "U_local_call"
// arrive through the same field.
func ParseEffectiveTag(s string) EffectiveTag {
	if len(s) > 2 && s[1] == '_' {
		p := PromoType(s[:1])
		if p.Valid() {
			return EffectiveTag{PromoType: p, Kind: TransactionKind(s[2:])}
		}
	}
	return EffectiveTag{Kind: TransactionKind(s)}
}

// ServiceStatus / ServiceType mirror the published/unpublished and
// push/info flags on value-added services.
type ServiceStatus string

const (
	ServiceStatusPublished   ServiceStatus = "P"
	ServiceStatusUnpublished ServiceStatus = "U"
)

type ServiceType string

const (
	ServiceTypePush ServiceType = "P"
	ServiceTypeInfo ServiceType = "I"
)

// NormalizeKeyword maps user-entered promo/service keywords onto their
// stored form.
func NormalizeKeyword(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
