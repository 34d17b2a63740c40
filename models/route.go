package models

// Route identifies which answer strategy handled a query. It is computed
// once per query by the router and never changed afterwards.
type Route string

const (
	// RouteWeather marks queries answered by the live weather lookup.
	RouteWeather Route = "weather"
	// RouteRAG marks queries answered from the ingested documents.
	RouteRAG Route = "rag"
)
