package rkafka

//go:generate mockgen -destination=mock_rkafka_test.go -package=rkafka . Poller,Writer
