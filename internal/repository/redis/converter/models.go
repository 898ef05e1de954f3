package converter

type ProductInfoRedisModel struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Cost int64  `json:"cost"`
}
