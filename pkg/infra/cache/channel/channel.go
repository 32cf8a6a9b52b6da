package channel

type Channel string

const BucketsChannel Channel = "trustbatch:buckets"
