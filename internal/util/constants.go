package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	IconStoreLocal = "local"
	IconStoreMinio = "minio"
)

// 课程快照缓存 key 前缀
const CourseSnapshotCachePrefix = "outline:snapshot:"
