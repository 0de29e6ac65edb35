package insight

var InsertOrResolveTag = (*Service).insertOrResolveTag
