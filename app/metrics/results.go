package metrics

const (
	ResultSuccess       = "success"
	ResultNoArticles    = "no_articles"
	ResultNavigation    = "navigation"
	ResultSerialization = "serialization"
	ResultWrite         = "write"
	ResultError         = "error"
)
