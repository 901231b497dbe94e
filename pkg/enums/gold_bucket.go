package enums

// GoldBucket is one of the five qualitative performance classifications the
// dashboard attaches to an ad.
type GoldBucket string

const (
	BucketGolds         GoldBucket = "golds"
	BucketOportunidades GoldBucket = "oportunidades"
	BucketLicoes        GoldBucket = "licoes"
	BucketDescartes     GoldBucket = "descartes"
	BucketNeutros       GoldBucket = "neutros"
)

var validGoldBuckets = []GoldBucket{
	BucketGolds,
	BucketOportunidades,
	BucketLicoes,
	BucketDescartes,
	BucketNeutros,
}

// IsValid reports whether the value matches the canonical bucket enum.
func (g GoldBucket) IsValid() bool {
	for _, candidate := range validGoldBuckets {
		if candidate == g {
			return true
		}
	}
	return false
}
