package repository

// Set agrupa los repositorios atados a una misma unidad de trabajo (pool o transacción).
type Set struct {
	Projects  ProjectRepository
	Materials MaterialRepository
	Movements MovementRepository
	Stock     StockRepository
	Users     UserRepository
}
