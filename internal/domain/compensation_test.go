package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountsFollowFieldOrder(t *testing.T) {
	in := CompensationInput{
		BasicSalary:                 decimal.NewFromInt(1),
		HRA:                         decimal.NewFromInt(2),
		OtherAllowances:             decimal.NewFromInt(3),
		PerformanceBonus:            decimal.NewFromInt(4),
		EmployerProvidentFund:       decimal.NewFromInt(5),
		Gratuity:                    decimal.NewFromInt(6),
		EmployerMedicalInsurance:    decimal.NewFromInt(7),
		EmployerPensionContribution: decimal.NewFromInt(8),
	}

	amounts := in.Amounts()
	assert.Len(t, amounts, len(CompensationFields))
	for i, a := range amounts {
		assert.Equal(t, CompensationFields[i], a.Field)
		assert.True(t, a.Amount.Equal(decimal.NewFromInt(int64(i+1))), "field %s", a.Field)
	}
}

func TestSetAmountRoundTripsEveryField(t *testing.T) {
	var in CompensationInput
	for i, f := range CompensationFields {
		assert.True(t, in.SetAmount(f, decimal.NewFromInt(int64(100+i))))
	}
	for i, a := range in.Amounts() {
		assert.True(t, a.Amount.Equal(decimal.NewFromInt(int64(100+i))), "field %s", a.Field)
	}

	assert.False(t, in.SetAmount("basic", decimal.NewFromInt(1)))
	assert.True(t, IsCompensationField(FieldGratuity))
	assert.False(t, IsCompensationField("salary"))
}

func TestOfferStatusValid(t *testing.T) {
	for _, s := range OfferStatuses {
		assert.True(t, s.Valid(), "status %s", s)
	}
	assert.False(t, OfferStatus("hired").Valid())
	assert.False(t, OfferStatus("").Valid())
}
