package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Orders() OrderRepository
	History() HistoryRepository
	Menu() MenuRepository
	Admins() AdminRepository
	Sequence() SequenceAllocator
}
