package metadata

import "fmt"

type ItemStatus string

const (
	ItemAvailable ItemStatus = "tersedia"
	ItemBorrowed  ItemStatus = "dipinjam"
	ItemDamaged   ItemStatus = "rusak"
	ItemLost      ItemStatus = "hilang"
)

func NewItemStatus(value string) (ItemStatus, error) {
	status := ItemStatus(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid item status: %s", value)
	}
	return status, nil
}

func (s ItemStatus) isValid() bool {
	switch s {
	case ItemAvailable, ItemBorrowed, ItemDamaged, ItemLost:
		return true
	default:
		return false
	}
}

type Condition string

const (
	ConditionGood        Condition = "baik"
	ConditionLightDamage Condition = "rusak ringan"
	ConditionHeavyDamage Condition = "rusak berat"
)

func NewCondition(value string) (Condition, error) {
	condition := Condition(value)
	if !condition.isValid() {
		return "", fmt.Errorf("invalid condition: %s", value)
	}
	return condition, nil
}

func (c Condition) isValid() bool {
	switch c {
	case ConditionGood, ConditionLightDamage, ConditionHeavyDamage:
		return true
	default:
		return false
	}
}

type ReportStatus string

const (
	ReportProcessing ReportStatus = "diproses"
	ReportCompleted  ReportStatus = "selesai"
	ReportRejected   ReportStatus = "ditolak"
)

func NewReportStatus(value string) (ReportStatus, error) {
	status := ReportStatus(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid report status: %s", value)
	}
	return status, nil
}

func (s ReportStatus) isValid() bool {
	switch s {
	case ReportProcessing, ReportCompleted, ReportRejected:
		return true
	default:
		return false
	}
}
